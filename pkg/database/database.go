package database

import (
	"campus_backend/internal/config"
	"campus_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Course{},
		&model.CoursePrerequisite{},
		&model.CatalogRevision{},
		&model.Enrollment{},
		&model.Assessment{},
		&model.GradeRecord{},
	}
}

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logMode := logger.Warn
	if mode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	if err := db.FirstOrCreate(&model.CatalogRevision{ID: model.CatalogRevisionID}).Error; err != nil {
		return err
	}
	// rows written before the active column existed
	err := db.Model(&model.Enrollment{}).
		Where("active IS NULL AND status <> ?", model.EnrollmentDropped).
		UpdateColumn("active", true).Error
	if err != nil {
		return err
	}
	log.Println("Database migration completed")
	return nil
}
