package config

import (
	"io/ioutil"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var validate = validator.New()

// Load reads the yaml file at path into out and validates the
// `validate` tags of the decoded value.
func Load(path string, out interface{}) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "fail to open config file")
	}

	if err := yaml.UnmarshalStrict(raw, out); err != nil {
		return errors.Wrap(err, "fail to decode config file")
	}

	if err := validate.Struct(out); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}
