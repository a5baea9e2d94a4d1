package apikey

import (
	apikeydomain "github.com/mocksmith/mocksmith/internal/apikey/domain"
	"github.com/mocksmith/mocksmith/internal/apikey/repository"
	"github.com/mocksmith/mocksmith/internal/apikey/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("apikey.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(migrate),
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&apikeydomain.APIKey{})
}
