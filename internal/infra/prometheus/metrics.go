package infra_prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matchmovie"

type Metrics struct {
	registry *prometheus.Registry

	roomsCreated       prometheus.Counter
	roomsFinished      prometheus.Counter
	votes              prometheus.Counter
	participantsJoined prometheus.Counter
}

type Option func(*Metrics)

// WithStoredRooms exports the number of rooms held by the store, read on every scrape.
func WithStoredRooms(count func() float64) Option {
	return func(m *Metrics) {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_stored",
			Help:      "Rooms currently held by the room store, finished rooms included until they expire.",
		}, count))
	}
}

func New(opts ...Option) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		roomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_created_total",
			Help:      "Rooms created.",
		}),
		roomsFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_finished_total",
			Help:      "Rooms that reached the finished status.",
		}),
		votes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Registered movie votes.",
		}),
		participantsJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participants_joined_total",
			Help:      "Participants that joined a room.",
		}),
	}

	m.registry.MustRegister(
		m.roomsCreated,
		m.roomsFinished,
		m.votes,
		m.participantsJoined,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Metrics) RoomCreated()       { m.roomsCreated.Inc() }
func (m *Metrics) RoomFinished()      { m.roomsFinished.Inc() }
func (m *Metrics) ParticipantJoined() { m.participantsJoined.Inc() }
func (m *Metrics) VoteRegistered()    { m.votes.Inc() }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
