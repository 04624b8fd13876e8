package module

import (
	"innovation-challenge-system/internal/module/challenge"
	"innovation-challenge-system/internal/module/ping"
	"innovation-challenge-system/internal/module/registration"
	"innovation-challenge-system/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&challenge.ModuleChallenge{},
		&registration.ModuleRegistration{},
	})
}
