package client

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/bep/debounce"
	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"

	"washpos/pkg/libpos"
)

// metricsPollInterval paces the dashboard refresh in watch mode.
const metricsPollInterval = 5 * time.Second

// Dashboard renders the current-day metrics of the active store once.
func Dashboard() error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	metrics, err := client.DashboardMetrics(store.ID)
	if err != nil {
		return errors.Wrap(err, "could not get metrics")
	}
	return renderMetrics(store.Name, metrics)
}

// Watch keeps the dashboard on screen and refreshes it periodically. The
// session is kept alive in the background and a forced sign-out ends the
// watch with a notice.
func Watch() error {
	client, cfg, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	log := NewLogger()
	expired := make(chan struct{})

	monitor := libpos.NewMonitor(client,
		libpos.WithLogger(log),
		libpos.OnRefreshed(func(session libpos.Session) {
			cfg.Session = session
			if err := Save(*cfg); err != nil {
				log.WithError(err).Warn("could not persist refreshed session")
			}
		}),
		libpos.OnExpired(func() {
			close(expired)
		}),
	)
	client.OnSessionChange(monitor.HandleSessionChange)
	monitor.Arm()
	defer monitor.Disarm()

	figure.NewFigure("WashPOS", "cybermedium", true).Print()
	fmt.Println()

	// Coalesce bursts of triggers into a single redraw.
	var render = func() {
		metrics, err := client.DashboardMetrics(store.ID)
		if err != nil {
			log.WithError(err).Warn("could not get metrics")
			return
		}
		renderMetrics(store.Name, metrics)
	}
	debounced := debounce.New(500 * time.Millisecond)
	debounced(render)

	ticker := time.NewTicker(metricsPollInterval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			debounced(render)
		case <-expired:
			fmt.Println("Your session has expired. Please log in again to continue.")
			return Remove()
		case <-stop:
			return nil
		}
	}
}

func renderMetrics(name string, metrics *libpos.DashboardMetrics) error {
	fmt.Printf("%s - %s\n", name, time.Now().Format("2006-01-02 15:04:05"))

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "Orders today\t%d\n", metrics.OrdersToday)
	fmt.Fprintf(w, "Revenue today\t%s\n", money(metrics.RevenueToday))
	fmt.Fprintf(w, "Pending\t%d\n", metrics.Badges.Pending)
	fmt.Fprintf(w, "Processing\t%d\n", metrics.Badges.Processing)
	fmt.Fprintf(w, "Ready\t%d\n", metrics.Badges.Ready)
	fmt.Fprintf(w, "In progress\t%d\n", metrics.Badges.Total())
	return w.Flush()
}
