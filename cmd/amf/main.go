// Command amf is the OmniPath AMF process entry point: it loads
// configuration, binds the NGAP SCTP listener, starts the NGAP engine,
// registers with the NRF, and serves Prometheus metrics until an OS
// signal requests shutdown. Grounded on nf/amf/cmd/main.go in the
// teacher, generalized from an HTTP-only NF to the NGAP/SBI split this
// AMF implements.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/your-org/omnipath/internal/appctx"
	"github.com/your-org/omnipath/internal/config"
	"github.com/your-org/omnipath/internal/metrics"
	"github.com/your-org/omnipath/internal/ngap/engine"
	"github.com/your-org/omnipath/internal/ngap/transport"
	"github.com/your-org/omnipath/internal/sbi/nrf"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const (
	metricsPort = 9094
	// defaultHeartbeatPeriod is used only if the NRF's Register response
	// carries no heartBeatTimer (spec.md §4.7 normally supplies one).
	defaultHeartbeatPeriod = 10 * time.Second
	shutdownTimeout        = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "config/amf.yaml", "path to configuration file")
	flag.Parse()

	logger := createLogger("info")
	defer logger.Sync()

	logger.Info("starting AMF",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("amf_name", cfg.AMFName),
		zap.String("nrf_uri", cfg.NrfURI),
		zap.Strings("ngap_ip_list", cfg.NgapIPList),
		zap.Uint16("ngap_port", cfg.NgapPort),
	)

	app := appctx.Init(cfg, &appctx.Sbi{
		Scheme:       cfg.SBI.Scheme,
		BindingIPv4:  cfg.SBI.BindingIPv4,
		RegisterIPv4: cfg.SBI.RegisterIPv4,
		Port:         cfg.SBI.Port,
		OAuthEnabled: cfg.SBI.OAuthEnabled,
	})

	metricsServer := metrics.NewServer(metricsPort, logger)
	go func() {
		if err := metricsServer.Start(); err != nil {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
	defer metricsServer.Stop()
	metrics.SetServiceUp(true)
	defer metrics.SetServiceUp(false)

	ip := net.ParseIP(cfg.NgapIPList[0])
	network, err := transport.Listen(ip, int(cfg.NgapPort), cfg.SCTP, logger.Named("transport"))
	if err != nil {
		logger.Fatal("failed to bind ngap listener", zap.Error(err))
	}
	defer network.Close()

	eng := engine.New(app, network, logger.Named("engine"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nrfClient := nrf.New(cfg.NrfURI, cfg.NFInstanceID, cfg.SBI.OAuthEnabled, logger.Named("nrf"))
	if err := registerWithNRF(ctx, nrfClient, cfg, app); err != nil {
		logger.Error("failed to register with nrf", zap.Error(err))
	} else {
		heartbeatPeriod := defaultHeartbeatPeriod
		if nfConfig := nrfClient.NfConfig(); nfConfig != nil && nfConfig.HeartBeatTimer > 0 {
			heartbeatPeriod = nfConfig.HeartBeatTimer
		}
		logger.Info("registered with nrf",
			zap.String("nf_instance_id", nrfClient.NfConfig().NFInstanceID),
			zap.Duration("heartbeat_period", heartbeatPeriod),
		)
		metrics.SetNRFRegistered(true)
		go runHeartbeatLoop(ctx, nrfClient, heartbeatPeriod, logger.Named("nrf"))
		defer func() {
			deregisterCtx, deregisterCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer deregisterCancel()
			if err := nrfClient.Deregister(deregisterCtx); err != nil {
				logger.Error("failed to deregister from nrf", zap.Error(err))
			}
			metrics.SetNRFRegistered(false)
		}()
	}

	engineErrors := make(chan error, 1)
	go func() {
		logger.Info("ngap engine started",
			zap.String("address", fmt.Sprintf("%s:%d", ip, cfg.NgapPort)),
		)
		engineErrors <- eng.Run(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-engineErrors:
		logger.Error("ngap engine stopped", zap.Error(err))
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}

	logger.Info("amf shutdown complete")
}

// registerWithNRF builds this AMF's NF profile from its current
// configuration and registers it with the NRF (spec.md §4.7).
func registerWithNRF(ctx context.Context, client *nrf.Client, cfg *config.Configuration, app *appctx.AppContext) error {
	sbi := app.GetSbi()

	guamiList := make([]nrf.GUAMI, 0, len(cfg.ServedGUAMI))
	for _, g := range cfg.ServedGUAMI {
		guamiList = append(guamiList, nrf.GUAMI{
			PLMNID: nrf.PLMNID{MCC: g.PLMNID.MCC, MNC: g.PLMNID.MNC},
			AMFID:  fmt.Sprintf("%02X%04X", g.AMFRegionID, (uint16(g.AMFSetID)<<6)|uint16(g.AMFPointer)),
		})
	}

	plmnList := make([]nrf.PLMNID, 0, len(cfg.PLMNSupport))
	for _, p := range cfg.PLMNSupport {
		plmnList = append(plmnList, nrf.PLMNID{MCC: p.PLMNID.MCC, MNC: p.PLMNID.MNC})
	}

	profile := &nrf.NFProfile{
		NFInstanceID:  cfg.NFInstanceID,
		NFType:        "AMF",
		NFStatus:      "REGISTERED",
		PLMNList:      plmnList,
		IPv4Addresses: []string{sbi.RegisterIPv4},
		Priority:      1,
		Capacity:      255,
		AMFInfo: &nrf.AMFInfo{
			GUAMIList: guamiList,
		},
		NFServices: sbiServices(cfg, sbi),
	}

	_, err := client.Register(ctx, profile, &nrf.RegisterHeaderParams{})
	return err
}

func sbiServices(cfg *config.Configuration, sbi *appctx.Sbi) []nrf.NFService {
	services := make([]nrf.NFService, 0, len(cfg.SBI.ServiceNameList))
	for _, name := range cfg.SBI.ServiceNameList {
		services = append(services, nrf.NFService{
			ServiceInstanceID: name,
			ServiceName:       name,
			Scheme:            sbi.Scheme,
			NFServiceStatus:   "REGISTERED",
			IPEndPoints:       []string{fmt.Sprintf("%s:%d", sbi.RegisterIPv4, sbi.Port)},
			Versions: []nrf.NFServiceVersion{
				{APIVersionInURI: "v1", APIFullVersion: "1.0.0"},
			},
		})
	}
	return services
}

// runHeartbeatLoop sends periodic NFUpdate heartbeats to the NRF until
// ctx is cancelled, at the interval the NRF returned in its Register
// response (spec.md §4.7, §289 Open Question: heartbeat handling).
func runHeartbeatLoop(ctx context.Context, client *nrf.Client, period time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := client.Heartbeat(ctx); err != nil {
				logger.Error("nrf heartbeat failed", zap.Error(err))
				metrics.RecordNRFHeartbeatFailure()
			}
		case <-ctx.Done():
			return
		}
	}
}

func createLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return logger
}
