// cmd/groundsim/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// groundsim runs the boarding engine and the pushback controller against
// an in-memory variable store, with a terminal UI or headless.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/groundsim/groundsim/boarding"
	"github.com/groundsim/groundsim/journal"
	"github.com/groundsim/groundsim/log"
	"github.com/groundsim/groundsim/pushback"
	"github.com/groundsim/groundsim/rand"
	"github.com/groundsim/groundsim/sim"
	"github.com/groundsim/groundsim/simvar"
)

var (
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
	rateFlag     = flag.String("rate", "", "boarding rate: instant, fast, real")
	unitFlag     = flag.String("unit", "", "mass unit: kg, lbs")
	paxWeight    = flag.Float64("pax-weight", 0, "weight per passenger in the mass unit (0 = default)")
	bagWeight    = flag.Float64("bag-weight", 0, "weight per bag in the mass unit (0 = default)")
	paxTarget    = flag.Int("pax", -1, "passenger target for headless runs (-1 = saved setting)")
	cargoTarget  = flag.Float64("cargo", -1, "cargo target in the mass unit for headless runs (-1 = saved setting)")
	snapshotFlag = flag.String("snapshot", "", "file to resume the variable store from and save it to")
	dsnFlag      = flag.String("dsn", "", "MySQL DSN for the ground event journal")
	seed         = flag.Int64("seed", 0, "random seed for seat selection (0 = time based)")
	headless     = flag.Bool("headless", false, "board to the target without the terminal UI and exit")
	boardingHz   = flag.Int("boarding-hz", 20, "rate at which the boarding engine is updated")
)

// envFlags are the flags that can also be set from the environment or a
// .env file; explicit flags win.
var envFlags = map[string]string{
	"rate":     "GROUNDSIM_RATE",
	"unit":     "GROUNDSIM_UNIT",
	"dsn":      "GROUNDSIM_DSN",
	"snapshot": "GROUNDSIM_SNAPSHOT",
	"loglevel": "GROUNDSIM_LOGLEVEL",
}

func applyEnvironment() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf(".env: %w", err)
		}
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for name, env := range envFlags {
		if v, ok := os.LookupEnv(env); ok && !set[name] {
			if err := flag.Set(name, v); err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
		}
	}
	return nil
}

// options are the settings resolved from flags, environment and the
// saved config.
type options struct {
	rate        boarding.RatePolicy
	units       simvar.UnitSystem
	weights     boarding.Weights
	paxTarget   int
	cargoTarget float64
	snapshot    string
}

func resolveOptions(config *Config) (options, error) {
	var opt options
	var err error

	rate := *rateFlag
	if rate == "" {
		rate = config.Rate
	}
	if opt.rate, err = boarding.ParseRatePolicy(rate); err != nil {
		return opt, err
	}

	unit := *unitFlag
	if unit == "" {
		unit = config.Unit
	}
	if opt.units.Mass, err = simvar.ParseMassUnit(unit); err != nil {
		return opt, err
	}

	opt.weights = boarding.Weights{PerPax: *paxWeight, PerBag: *bagWeight}

	opt.paxTarget = config.PassengerTarget
	if *paxTarget >= 0 {
		opt.paxTarget = *paxTarget
	}
	opt.cargoTarget = config.CargoTarget
	if *cargoTarget >= 0 {
		opt.cargoTarget = *cargoTarget
	}

	opt.snapshot = *snapshotFlag
	if opt.snapshot == "" {
		opt.snapshot = config.Snapshot
	}
	return opt, nil
}

func main() {
	flag.Parse()
	if err := applyEnvironment(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lg := log.New(log.Config{Level: *logLevel, Dir: *logDir, Echo: *headless})
	defer lg.CatchAndReportCrash()

	banner := figure.NewFigure("GroundSim", "", false)
	for _, line := range banner.Slicify() {
		lg.Info(line)
	}
	if *headless {
		banner.Print()
	}

	config, err := LoadOrMakeDefaultConfig(lg)
	if err != nil {
		lg.Errorf("Error loading config: %v", err)
	}
	opt, err := resolveOptions(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(opt, config, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opt options, config *Config, lg *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := sim.NewEventStream(lg)
	defer events.Destroy()

	r := rand.New()
	if *seed != 0 {
		r = rand.NewSeeded(*seed)
	}

	store := simvar.NewMemory()
	resumed := false
	if opt.snapshot != "" {
		if snap, err := simvar.LoadSnapshot(opt.snapshot); err == nil {
			if err := store.Restore(snap); err != nil {
				lg.Warnf("%s: %v", opt.snapshot, err)
			} else {
				lg.Infof("Resumed from %s, saved %s", opt.snapshot, snap.Saved.Format(time.RFC3339))
				resumed = true
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			lg.Warnf("%s: %v", opt.snapshot, err)
		}
	}

	aircraft := newAircraftModel(store, defaultStand, !resumed)

	be, err := boarding.NewEngine(store, boarding.Config{
		Layout:     boarding.A320Layout(),
		Rate:       opt.rate,
		Units:      opt.units,
		OFPWeights: opt.weights,
		Rand:       r,
		Events:     events,
	}, lg)
	if err != nil {
		return err
	}
	if resumed {
		be.SetDefaultWeights(opt.weights)
	} else {
		be.Initialize()
	}

	h := &host{
		store:       store,
		boarding:    be,
		pushback:    pushback.NewController(store, sim.RealClock{}, events, lg),
		mapView:     pushback.NewMapView(),
		aircraft:    aircraft,
		clock:       sim.RealClock{},
		stream:      events,
		events:      events.Subscribe("ui"),
		lg:          lg,
		opt:         opt,
		paxTarget:   opt.paxTarget,
		cargoTarget: opt.cargoTarget,
		headless:    *headless,
		frameRate:   max(*boardingHz, 1),
		snapshotReq: make(chan struct{}, 1),
		statusReq:   make(chan struct{}, 1),
	}

	jobs := cron.New()
	if opt.snapshot != "" {
		if _, err := jobs.AddFunc("@every 1m", func() { notify(h.snapshotReq) }); err != nil {
			return err
		}
	}
	if _, err := jobs.AddFunc("@every 30s", func() { notify(h.statusReq) }); err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	eg, ctx := errgroup.WithContext(ctx)

	if *dsnFlag != "" {
		db, err := journal.Connect(ctx, *dsnFlag, lg)
		if err != nil {
			return err
		}
		j, err := journal.New(db, events, lg)
		if err != nil {
			return err
		}
		eg.Go(func() error { return j.Run(ctx, 5*time.Second) })
	}

	var ui *terminalUI
	if !*headless {
		if ui, err = newTerminalUI(); err != nil {
			return err
		}
		eg.Go(func() error { return ui.poll(ctx) })
	}

	eg.Go(func() error {
		defer cancel()
		if ui != nil {
			defer ui.close()
		}
		return h.run(ctx, ui)
	})

	err = eg.Wait()

	config.Rate = be.Rate().String()
	config.Unit = string(opt.units.UserMass())
	config.PassengerTarget = h.paxTarget
	config.CargoTarget = h.cargoTarget
	config.Snapshot = opt.snapshot
	if serr := config.Save(lg); serr != nil {
		lg.Errorf("Error saving config: %v", serr)
	}

	return err
}

// notify performs a non-blocking send; a pending request is enough.
func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
