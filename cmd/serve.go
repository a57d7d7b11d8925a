package cmd

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/trace"
)

var (
	serveConfigPath string
	serveSeed       int64
	serveHorizon    float64
	serveAddr       string
	serveSpeed      float64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// liveServer paces one simulation in wall time, streams its trace records
// to websocket clients, and exposes prometheus gauges on /metrics.
type liveServer struct {
	mu      sync.Mutex
	sim     *sim.Simulation
	pending []trace.Record
	clients map[*websocket.Conn]bool
}

func newLiveServer(sc *sim.Scenario) (*liveServer, error) {
	s := &liveServer{clients: make(map[*websocket.Conn]bool)}
	simulation, err := sim.NewSimulation(sc, trace.Func(func(r trace.Record) {
		// Called from step() with s.mu held.
		s.pending = append(s.pending, r)
	}))
	if err != nil {
		return nil, err
	}
	s.sim = simulation
	return s, nil
}

// step advances the run by delta virtual minutes and returns the records
// emitted during the step.
func (s *liveServer) step(delta float64) ([]trace.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sim.Step(s.sim.Now() + delta); err != nil {
		return nil, err
	}
	updatePrometheusMetrics(s.sim)
	out := s.pending
	s.pending = nil
	return out, nil
}

func (s *liveServer) done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Done()
}

func (s *liveServer) broadcast(records []trace.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		for _, r := range records {
			if err := conn.WriteJSON(r); err != nil {
				logrus.Debugf("websocket client dropped: %v", err)
				conn.Close()
				delete(s.clients, conn)
				break
			}
		}
	}
}

func (s *liveServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("websocket upgrade: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	logrus.Infof("websocket client connected: %s", conn.RemoteAddr())

	// Reader loop: discard inbound messages, detect disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				delete(s.clients, conn)
				s.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

func (s *liveServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := struct {
		Time     float64         `json:"time"`
		Horizon  float64         `json:"horizon"`
		Done     bool            `json:"done"`
		Produced int64           `json:"produced"`
		RawUsed  int64           `json:"rawMaterialsUsed"`
		Pools    []sim.PoolState `json:"pools"`
	}{
		Time:     s.sim.Now(),
		Horizon:  s.sim.Horizon(),
		Done:     s.sim.Done(),
		Produced: s.sim.Result().Produced,
		RawUsed:  s.sim.Result().RawMaterialsUsed,
		Pools:    s.sim.PoolStates(),
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// serveCmd runs one scenario paced in wall time with live observation
// endpoints: /ws (trace record stream), /status, /metrics (prometheus)
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a scenario paced in wall time with live trace streaming",
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := loadScenario(cmd, serveConfigPath, serveSeed, serveHorizon)
		if err != nil {
			logrus.Fatalf("scenario: %v", err)
		}

		server, err := newLiveServer(sc)
		if err != nil {
			logrus.Fatalf("serve: %v", err)
		}
		initPrometheusMetrics()

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", server.handleWS)
		mux.HandleFunc("/status", server.handleStatus)
		mux.Handle("/metrics", promhttp.Handler())

		go func() {
			const tick = 100 * time.Millisecond
			ticker := time.NewTicker(tick)
			defer ticker.Stop()
			perTick := serveSpeed * tick.Seconds()
			for range ticker.C {
				records, err := server.step(perTick)
				if err != nil {
					logrus.Errorf("simulation aborted: %v", err)
					return
				}
				server.broadcast(records)
				if server.done() {
					logrus.Info("simulation reached horizon; endpoints stay up")
					return
				}
			}
		}()

		logrus.Infof("serving on %s (%.0f virtual minutes per wall second)", serveAddr, serveSpeed)
		if err := http.ListenAndServe(serveAddr, mux); err != nil {
			logrus.Fatalf("http server: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Scenario YAML file (built-in default when omitted)")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 42, "Seed for the shared random stream")
	serveCmd.Flags().Float64Var(&serveHorizon, "horizon", 40*8*60, "Simulation horizon in virtual minutes")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().Float64Var(&serveSpeed, "speed", 60, "Virtual minutes advanced per wall-clock second")

	rootCmd.AddCommand(serveCmd)
}
