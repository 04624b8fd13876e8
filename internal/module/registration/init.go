package registration

import (
	"innovation-challenge-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleRegistration struct{}

func (p *ModuleRegistration) GetName() string {
	return "Registration"
}

func (p *ModuleRegistration) Init() {
	log = logger.New("Registration")
}
