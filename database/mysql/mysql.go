package mysql

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Mirror rows store UTC instants, so connections read them back as UTC.
const dsnTemplate = "%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC"

func (c connection) dsn() string {
	return fmt.Sprintf(dsnTemplate,
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}

// NewMySQLDB create the mysql master/slaves cluster. Reads are spread over
// the slaves, writes go to the master.
func NewMySQLDB(cfg Config) (*gorm.DB, error) {
	masterDSN := cfg.Master.dsn()
	replicas := make([]gorm.Dialector, 0, len(cfg.Slaves))
	for _, slave := range cfg.Slaves {
		replicas = append(replicas, mysql.Open(slave.dsn()))
	}

	db, err := gorm.Open(mysql.Open(masterDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.LogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open master mysql")
	}

	if err := db.Use(dbresolver.Register(dbresolver.Config{
		Sources:  []gorm.Dialector{mysql.Open(masterDSN)},
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetConnMaxIdleTime(time.Hour).
		SetConnMaxLifetime(24 * time.Hour).
		SetMaxIdleConns(cfg.ConnCfg.MaxIdleConns).
		SetMaxOpenConns(cfg.ConnCfg.MaxOpenConns),
	); err != nil {
		return nil, errors.Wrap(err, "register mysql replicas")
	}

	return db, nil
}
