package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/mocksmith/mocksmith/internal/apikey"
	"github.com/mocksmith/mocksmith/internal/clock"
	"github.com/mocksmith/mocksmith/internal/config"
	"github.com/mocksmith/mocksmith/internal/generate"
	"github.com/mocksmith/mocksmith/internal/observability"
	"github.com/mocksmith/mocksmith/internal/provider"
	"github.com/mocksmith/mocksmith/internal/quota"
	"github.com/mocksmith/mocksmith/internal/server"
	"github.com/mocksmith/mocksmith/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		apikey.Module,
		quota.Module,
		provider.Module,
		generate.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
