// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/guthdx/statuswatch/internal/config"
	"github.com/guthdx/statuswatch/internal/domain"
)

// preflight validates a deployment's configuration before the engine
// starts. It exits non-zero on anything that would make the service
// useless, and warns on risky-but-valid settings.
func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fail("config did not load: " + err.Error())
	}
	ok("config loaded")

	if cfg.DatabaseURL == "" {
		if len(cfg.Services) == 0 {
			fail("no DATABASE_URL and no static services: nothing to monitor")
		}
		warn("no DATABASE_URL set; using in-memory store (checks are lost on restart)")
	} else if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		fail("DATABASE_URL does not look like a postgres DSN")
	} else {
		ok("database DSN present")
	}

	bad := 0
	for _, s := range cfg.Services {
		if _, err := domain.ParseServiceType(s.Type); err != nil {
			warn(fmt.Sprintf("service %q has unrecognized type %q (will be skipped)", s.ID, s.Type))
			bad++
		}
	}
	if len(cfg.Services) > 0 && bad == 0 {
		ok(fmt.Sprintf("%d static services parse cleanly", len(cfg.Services)))
	}

	if cfg.Alert.WebhookURL == "" {
		warn("ALERT_WEBHOOK_URL is empty (down-transitions will only be logged)")
	} else {
		ok("alert webhook configured")
	}

	if len(cfg.API.AdminKeys) == 0 {
		warn("API_ADMIN_KEYS is empty (manual check trigger is open)")
	} else {
		ok("admin keys configured")
	}

	if cfg.Check.Interval == 0 {
		warn("CHECK_INTERVAL is 0: the recurring scheduler is disabled; only manual triggers will run")
	}
	ok("preflight complete")
}
