package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/tulika/internal/app"
	"github.com/ayusman/tulika/internal/config"
	"github.com/ayusman/tulika/internal/notify"
	"github.com/ayusman/tulika/internal/painter"
	"github.com/ayusman/tulika/internal/server"
	"github.com/ayusman/tulika/internal/store"
	"github.com/ayusman/tulika/internal/tray"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file (default <data>/config.toml)")
		cameraID   = flag.Int("camera", -1, "camera device index, overrides the config")
		addr       = flag.String("addr", "", "HTTP listen address, overrides the config; \"off\" disables the server")
		headless   = flag.Bool("headless", false, "do not open windows")
		withTray   = flag.Bool("tray", false, "show a system tray menu")
		dataDir    = flag.String("data", "", "data directory (default ~/.tulika)")
	)
	flag.Parse()

	fmt.Println("Tulika - Gesture Painter")

	if *dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		*dataDir = filepath.Join(homeDir, ".tulika")
	}
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if *configPath == "" {
		*configPath = filepath.Join(*dataDir, "config.toml")
	}
	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *cameraID >= 0 {
		settings.Camera.DeviceID = *cameraID
	}
	if *addr != "" {
		settings.Addr = *addr
	}
	if settings.PluginDir == "" {
		settings.PluginDir = filepath.Join(*dataDir, "plugins")
	}

	st, err := store.New(filepath.Join(*dataDir, "tulika.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// The tray owns the main thread, so the frame loop cannot show windows
	application := app.New(app.Config{
		Settings: settings,
		Store:    st,
		Notifier: notify.New(true),
		Headless: *headless || *withTray,
	})
	defer application.Close()

	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Failed to load plugins: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *server.Server
	if settings.Addr != "off" {
		webDir := findWebDir(*dataDir)
		if webDir != "" {
			fmt.Printf("Serving static files from: %s\n", webDir)
		}

		srv = server.New(server.Config{
			StaticDir: webDir,
			Store:     st,
			Painter:   application,
		})
		go func() {
			fmt.Printf("Starting server on %s\n", settings.Addr)
			if err := srv.ListenAndServe(settings.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	if *withTray {
		runWithTray(ctx, application, settings.Addr)
	} else if err := application.Run(ctx); err != nil {
		log.Fatalf("Failed to start camera: %v", err)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
	fmt.Println("Goodbye")
}

// runWithTray runs the frame loop in the background and the tray on the main goroutine.
func runWithTray(ctx context.Context, a *app.App, addr string) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnCommand(func(name string) {
		if _, err := a.Execute(ctx, painter.Command{Name: name}); err != nil {
			log.Printf("Tray command %s failed: %v", name, err)
		}
	})
	t.OnOpen(func() {
		if addr == "off" {
			return
		}
		openBrowser(browserURL(addr))
	})
	t.OnQuit(a.Quit)

	events, unsubscribe := a.Subscribe()
	defer unsubscribe()
	go func() {
		for e := range events {
			if e.Type == app.EventMode {
				t.SetMode(e.Mode)
			}
		}
	}()

	go func() {
		if err := a.Run(ctx); err != nil {
			log.Printf("Failed to start camera: %v", err)
		}
		t.Quit()
	}()

	t.Run()
	a.Quit()
	<-a.Done()
}

// browserURL turns a listen address such as ":8080" into a local URL.
func browserURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <data>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
