package database

import (
	"fmt"
	"log"

	"lms_backend/internal/config"
	"lms_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Task{},
		&model.EssayQuestion{},
		&model.MultipleChoiceQuestion{},
		&model.ProblemPrompt{},
		&model.TaskSubmission{},
		&model.EssayAnswer{},
		&model.MultipleChoiceAnswer{},
		&model.ProblemAnswer{},
		&model.MindmapTask{},
		&model.RubricEntry{},
		&model.MindmapSubmission{},
		&model.Group{},
		&model.GroupMessage{},
		&model.Content{},
		&model.Survey{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
