// Command media-encoder turns rotary encoder and button events from a serial
// device into media key presses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sweeney/media-encoder/internal/config"
	"github.com/sweeney/media-encoder/internal/gpio"
	"github.com/sweeney/media-encoder/internal/keys"
	"github.com/sweeney/media-encoder/internal/logic"
	"github.com/sweeney/media-encoder/internal/mqtt"
	"github.com/sweeney/media-encoder/internal/serial"
	"github.com/sweeney/media-encoder/internal/status"
	"github.com/sweeney/media-encoder/internal/web"
)

// flagValues holds the parsed command-line flags.
type flagValues struct {
	configPath   string
	port         string
	baud         int
	reverse      bool
	clickTimeout float64
	readTimeout  time.Duration
	broker       string
	httpAddr     string
	dryRun       bool
	gpioChip     string
	gpioA        int
	gpioB        int
	gpioButton   int
}

func registerFlags(fs *flag.FlagSet) *flagValues {
	v := &flagValues{}
	fs.StringVar(&v.configPath, "config", "", "YAML config file (flags set explicitly override it)")
	fs.StringVar(&v.port, "com", serial.DefaultPort, "serial port the encoder is attached to")
	fs.IntVar(&v.baud, "baud", serial.DefaultBaud, "serial baud rate")
	fs.BoolVar(&v.reverse, "reverse", false, "invert the encoder direction")
	fs.Float64Var(&v.clickTimeout, "click-timeout", logic.DefaultClickTimeout.Seconds(), "longest button hold, in seconds, still treated as a click")
	fs.DurationVar(&v.readTimeout, "read-timeout", serial.DefaultReadTimeout, "serial read timeout")
	fs.StringVar(&v.broker, "broker", "", "MQTT broker address (empty to disable)")
	fs.StringVar(&v.httpAddr, "http", "", "HTTP status address (empty to disable)")
	fs.BoolVar(&v.dryRun, "dry-run", false, "log actions without sending keys")
	fs.StringVar(&v.gpioChip, "gpio-chip", gpio.DefaultChip, "GPIO chip for a directly wired encoder")
	fs.IntVar(&v.gpioA, "gpio-a", -1, "GPIO line of encoder channel A (enables the GPIO source)")
	fs.IntVar(&v.gpioB, "gpio-b", -1, "GPIO line of encoder channel B")
	fs.IntVar(&v.gpioButton, "gpio-button", -1, "GPIO line of the encoder push button (-1 for none)")
	return v
}

// overrides returns the flags the user set explicitly.
func overrides(fs *flag.FlagSet, v *flagValues) config.Overrides {
	var o config.Overrides
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "com":
			o.Port = &v.port
		case "baud":
			o.Baud = &v.baud
		case "reverse":
			o.Reverse = &v.reverse
		case "click-timeout":
			o.ClickTimeout = &v.clickTimeout
		case "read-timeout":
			o.ReadTimeout = &v.readTimeout
		case "broker":
			o.Broker = &v.broker
		case "http":
			o.HTTPAddr = &v.httpAddr
		case "dry-run":
			o.DryRun = &v.dryRun
		case "gpio-chip":
			o.GPIOChip = &v.gpioChip
		case "gpio-a":
			o.GPIOA = &v.gpioA
		case "gpio-b":
			o.GPIOB = &v.gpioB
		case "gpio-button":
			o.GPIOButton = &v.gpioButton
		}
	})
	return o
}

// loadConfig merges defaults, the optional config file and explicit flags.
func loadConfig(fs *flag.FlagSet, v *flagValues) (config.Config, error) {
	cfg := config.DefaultConfig()
	if v.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(v.configPath); err != nil {
			return config.Config{}, err
		}
	}
	overrides(fs, v).Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func main() {
	v := registerFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := loadConfig(flag.CommandLine, v)
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		os.Exit(1)
	}

	os.Exit(run(cfg))
}

// openSource opens the configured line source and returns it with a label
// for log messages.
func openSource(cfg config.Config) (serial.LineSource, string, error) {
	if !cfg.GPIOEnabled() {
		src, err := serial.Open(cfg.Serial.Port, cfg.Serial.Baud, cfg.ReadTimeout())
		return src, cfg.Serial.Port, err
	}

	pins := cfg.Pins()
	label := fmt.Sprintf("%s a=%d b=%d button=%d", pins.Chip, pins.A, pins.B, pins.Button)
	reader, err := gpio.NewRealReader(pins)
	if err != nil {
		return nil, label, err
	}
	src, err := gpio.NewSource(reader, cfg.PollInterval(), pins.HasButton())
	if err != nil {
		reader.Close()
		return nil, label, err
	}
	return src, label, nil
}

// run wires the daemon together and returns the process exit code.
func run(cfg config.Config) int {
	src, label, err := openSource(cfg)
	if err != nil {
		log.Printf("unable to open COM port %q: %v", label, err)
		return 1
	}
	defer src.Close()

	var sink keys.Sink = keys.LogSink{}
	if !cfg.Keys.DryRun {
		realSink, err := keys.NewRealSink()
		if err != nil {
			log.Printf("unable to create key injector: %v", err)
			return 1
		}
		sink = realSink
	}
	defer sink.Close()

	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	source := "serial"
	if cfg.GPIOEnabled() {
		source = "gpio"
	}
	ic := cfg.Interpreter()
	tracker := status.NewTracker(time.Now(), status.Config{
		Source:         source,
		Port:           label,
		Baud:           cfg.Serial.Baud,
		Reverse:        ic.Reverse,
		ClickTimeoutMs: ic.ClickTimeout.Milliseconds(),
		ReadTimeoutMs:  cfg.ReadTimeout().Milliseconds(),
		DryRun:         cfg.Keys.DryRun,
		Broker:         cfg.MQTT.Broker,
		HTTPAddr:       cfg.HTTP.Addr,
	})
	tracker.SetMQTTConnected(publisher.IsConnected())

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	var hub *web.Hub
	if cfg.HTTP.Addr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub = web.NewHub(web.HubConfig{})
		go hub.Run(ctx)

		srv := web.New(cfg.HTTP.Addr, tracker, hub)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("listening on COM port %s", label)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := runLoop(src, sink, publisher, publisher, tracker, hub, ic, time.Now, sigCh); err != nil {
		log.Printf("unable to read COM port %q: %v", label, err)
		return 1
	}
	return 0
}

// runLoop feeds lines from src through the interpreter until a signal
// arrives (returns nil) or the source fails (returns the error).
func runLoop(src serial.LineSource, sink keys.Sink, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, hub *web.Hub, cfg logic.Config, now func() time.Time, sig <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(context.Background())
	lines := make(chan string)
	readErr := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			line, err := src.ReadLine(ctx)
			if err != nil {
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	stop := func() {
		cancel()
		wg.Wait()
	}

	interp := logic.NewInterpreter(cfg)
	h := &lineHandler{
		interp:     interp,
		sink:       sink,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		hub:        hub,
		now:        now,
	}

	for {
		select {
		case s := <-sig:
			log.Printf("exiting")
			stop()
			h.publishShutdown(signalName(s))
			return nil

		case err := <-readErr:
			stop()
			h.publishShutdown("READ_ERROR")
			return fmt.Errorf("read line: %w", err)

		case line := <-lines:
			h.handle(line)
		}
	}
}

type lineHandler struct {
	interp     *logic.Interpreter
	sink       keys.Sink
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	hub        *web.Hub
	now        func() time.Time
}

func (h *lineHandler) handle(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t := h.now()
	log.Printf("line: %s", line)

	ev, ok, err := logic.ParseLine(line)
	if err != nil {
		log.Printf("ignoring malformed line %q: %v", line, err)
		if h.tracker != nil {
			h.tracker.RecordLine(true)
		}
		return
	}
	if !ok {
		return
	}

	res := h.interp.Process(ev, t)
	if res.Released {
		log.Printf("pressed for %.2f sec.", res.Held.Seconds())
	}

	if res.Action != logic.ActionNone {
		log.Printf("action: %s", res.Action)
		sinkErr := h.sink.Send(res.Action)
		if sinkErr != nil {
			log.Printf("key send error: %v", sinkErr)
		}

		event := mqtt.ActionEvent{
			Timestamp: t,
			Action:    res.Action,
			Line:      line,
			Position:  h.interp.Position(),
			Pressed:   h.interp.Pressed(),
		}
		if err := h.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
		}

		if h.tracker != nil {
			h.tracker.RecordAction(res.Action, t, sinkErr)
		}
		h.hub.BroadcastAction(web.ActionMessage{
			Action:   res.Action,
			Position: event.Position,
			Pressed:  event.Pressed,
			At:       t,
		})
	}

	if h.tracker != nil {
		h.tracker.RecordLine(false)
		h.tracker.Update(h.interp.Position(), h.interp.Pressed(), h.interp.ActionCountsSnapshot())
		if h.mqttStatus != nil {
			h.tracker.SetMQTTConnected(h.mqttStatus.IsConnected())
		}
	}
}

func (h *lineHandler) publishShutdown(reason string) {
	event := mqtt.SystemEvent{
		Timestamp: h.now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if h.tracker != nil {
		if h.mqttStatus != nil {
			h.tracker.SetMQTTConnected(h.mqttStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(h.tracker.Snapshot(), "SHUTDOWN", reason)
	}
	if err := h.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
