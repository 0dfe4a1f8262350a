// filepath: internal/services/info_service.go
package services

import (
	"context"
	"time"

	hkidsdb "hkids/internal/db"
	"hkids/internal/models"
)

var _ InfoService = (*infoService)(nil)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type infoService struct {
	gateway *hkidsdb.Gateway
	started time.Time
}

// NewInfoService creates a new InfoService.
func NewInfoService(gateway *hkidsdb.Gateway) *infoService {
	return &infoService{gateway: gateway, started: time.Now()}
}

func (s *infoService) GetInfo() models.Info {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return models.Info{
		Version:     Version,
		UptimeSince: s.started,
		DatabaseOK:  s.gateway.Ping(ctx) == nil,
	}
}
