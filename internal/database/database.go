package database

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/internal/config"
	"github.com/campusperks/points-services/pointsgateway/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(context.Background(), cfg.Database, logger)
}
