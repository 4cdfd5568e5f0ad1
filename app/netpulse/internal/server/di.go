package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/netpulse/app/netpulse/internal/data"
	"github.com/iWorld-y/netpulse/app/netpulse/internal/service"
	"github.com/iWorld-y/netpulse/app/netpulse/internal/usecase"
)

// ProviderSet 是 NetPulse 服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Engine providers
	NewComponents,
	NewEngine,
	NewTrending,

	// Data providers
	data.NewData,
	data.NewShareRepo,

	// UseCase providers
	usecase.NewShareUseCase,

	// Service providers
	service.NewNetPulseService,
)
