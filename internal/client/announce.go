package client

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"rcregistry/internal/logs"
)

// Announce регистрирует агент (update с available=1) и, пока ctx жив,
// раз в interval шлёт activate, обновляя time_stamp. При выходе — deactivate.
func Announce(ctx context.Context, c *Client, p UpdateParams, interval time.Duration) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	p.Available = true
	if err := c.Update(ctx, p); err != nil {
		return err
	}
	log := logs.Logger.WithFields(logrus.Fields{"id": p.ID, "ip": p.IP, "port": p.Port})
	log.Info("announced")

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := c.Deactivate(dctx, p.ID)
			cancel()
			if err != nil {
				log.WithError(err).Warn("deactivate on exit failed")
				return err
			}
			log.Info("deactivated")
			return nil
		case <-t.C:
			if err := c.Activate(ctx, p.ID); err != nil && ctx.Err() == nil {
				// сервер недоступен — пробуем на следующем тике
				log.WithError(err).Warn("heartbeat failed")
			}
		}
	}
}
