package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/voices/internal/client/client"
	"github.com/dmitrijs2005/voices/internal/client/config"
	"github.com/dmitrijs2005/voices/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/voices/internal/client/services"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	authService services.AuthService
	board       *services.Board
	reader      *bufio.Reader
	out         io.Writer

	modeMu sync.Mutex
	Mode   Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabaseFile)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewVoicesClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, metadata.NewSQLiteRepository(db))
	b := services.NewBoard(apiClient, as)

	return &App{
		config:      c,
		db:          db,
		authService: as,
		board:       b,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

// Run restores the saved session, loads the listing and serves the REPL
// until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	log.Println("Welcome to Voices CLI (type 'help' for commands)")

	if s, err := a.authService.Restore(ctx); err != nil {
		log.Printf("could not restore session: %v", err)
	} else if s != nil {
		a.println("Welcome back,", s.Email)
	}

	if err := a.board.Refresh(ctx); err != nil {
		log.Printf("could not load proposals: %v", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.authService.Account()
	return ok
}

func (a *App) getStatus() string {
	s := ""
	if acc, ok := a.authService.Account(); ok {
		s = acc.Email + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// StartOnlineStatusWatcher pings the ledger every interval and switches the
// displayed mode accordingly. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, interval)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
