package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
)

const probeTimeout = 3 * time.Second

// Oracle отвечает на вопрос «есть ли сейчас рабочий путь до сервера».
// Это не то же самое, что наличие радиосвязи: интерфейс может быть
// поднят, а сервер — недостижим.
type Oracle interface {
	IsOnline(ctx context.Context) bool
}

// ProbeOracle считает устройство онлайн только когда поднят хотя бы один
// не-loopback интерфейс И короткий запрос к health-эндпоинту сервера
// прошел успешно. Любой сбой проверки трактуется как офлайн (fail-closed):
// лучше отложить синхронизацию, чем принять обреченную попытку за
// подтверждение.
type ProbeOracle struct {
	healthURL string
	client    *http.Client
	log       *slog.Logger
}

func NewProbeOracle(serverAddress string, log *slog.Logger) *ProbeOracle {
	return &ProbeOracle{
		healthURL: serverAddress + "/api/health",
		client: &http.Client{
			Timeout: probeTimeout,
		},
		log: log.With("component", "net_probe"),
	}
}

func (o *ProbeOracle) IsOnline(ctx context.Context) bool {
	if !hasActiveInterface() {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, o.healthURL, nil)
	if err != nil {
		return false
	}

	resp, err := o.client.Do(req)
	if err != nil {
		o.log.Debug("health probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func hasActiveInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}
