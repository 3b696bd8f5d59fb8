package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	connectionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_connections",
		Help: "Currently attached websocket connections",
	})
	sessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sessions_created_total",
		Help: "Total game sessions created",
	})
	gamesDealt = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "games_dealt_total",
		Help: "Total sessions that reached the deal",
	})
	commandsHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_commands_total",
		Help: "Inbound gateway commands by type",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(connectionsGauge, sessionsCreated, gamesDealt, commandsHandled)
}
