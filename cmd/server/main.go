package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mapban/veto-backend/internal/httpapi"
	"github.com/mapban/veto-backend/internal/ledger"
	"github.com/mapban/veto-backend/internal/match"
	"github.com/mapban/veto-backend/internal/sequencer"
	"github.com/mapban/veto-backend/internal/state"
	"github.com/mapban/veto-backend/internal/vmix"
)

func main() {
	_ = godotenv.Load()

	zl, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zl.Sync()

	addr := envStr("ADDR", ":3000")

	doc := state.DefaultDocument()
	doc.Design.VmixHost = envStr("VMIX_HOST", doc.Design.VmixHost)
	doc.Design.VmixPort = envInt("VMIX_PORT", doc.Design.VmixPort)
	doc.Design.VmixDelay = envInt("VMIX_DELAY_MS", doc.Design.VmixDelay)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore(ctx, doc)
	lg := ledger.NewLog(ctx)
	vis := ledger.NewVisibility(ctx, lastStepID(doc.Steps))

	// The command channel loops back through our own relay endpoint, which
	// forwards to the mixer at whatever host/port the design holds.
	relayURL := envStr("RELAY_URL", "http://127.0.0.1"+portOf(addr)+"/api/vmix")
	channel := vmix.NewClient(relayURL, lg, zl)
	seq := sequencer.New(channel, lg, zl)

	handler := httpapi.SetupRoutes(httpapi.Deps{
		Store: store,
		Vis:   vis,
		Log:   lg,
		Seq:   seq,
		ZL:    zl,
	})

	srv := &http.Server{Addr: addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("listening",
			zap.String("addr", addr),
			zap.String("vmix", doc.Design.VmixHost+":"+strconv.Itoa(doc.Design.VmixPort)))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ":3000"
}

func lastStepID(steps []match.Step) int {
	if len(steps) == 0 {
		return 0
	}
	return steps[len(steps)-1].ID
}
