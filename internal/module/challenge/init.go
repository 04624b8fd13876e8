package challenge

import (
	"innovation-challenge-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleChallenge struct{}

func (p *ModuleChallenge) GetName() string {
	return "Challenge"
}

func (p *ModuleChallenge) Init() {
	log = logger.New("Challenge")
}
