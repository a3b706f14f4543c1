// Command localsoul-chat is a terminal client for the city assistant. It
// talks to the model directly and uses the native microphone and speaker for
// live voice sessions.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/localsoul/localsoul/internal/catalog"
	"github.com/localsoul/localsoul/internal/config"
	"github.com/localsoul/localsoul/internal/gemini"
	"github.com/localsoul/localsoul/internal/store"
	"github.com/localsoul/localsoul/internal/voice"
	"github.com/localsoul/localsoul/internal/voice/device"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := run(log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()

	var st store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
	} else {
		st = store.NewMemory()
	}
	defer st.Close()

	opts := []gemini.Option{gemini.WithLogger(log)}
	if cfg.HasLatLong {
		opts = append(opts, gemini.WithLocator(gemini.FixedLocation{
			Latitude:  cfg.Latitude,
			Longitude: cfg.Longitude,
		}))
	}
	client, err := gemini.New(ctx, cfg.GeminiAPIKey, opts...)
	if err != nil {
		return err
	}

	app := &chatApp{store: st, client: client, log: log}
	if err := app.loadScope(ctx); err != nil {
		return err
	}
	return app.loop(ctx)
}

type chatApp struct {
	store  store.Store
	client *gemini.Client
	log    *slog.Logger

	persona catalog.Persona
	mode    catalog.Mode
}

func (a *chatApp) loadScope(ctx context.Context) error {
	city := catalog.Default()
	if v, ok, err := a.store.Setting(ctx, store.SettingCity); err != nil {
		return err
	} else if ok {
		if parsed, err := catalog.ParseCity(v); err == nil {
			city = parsed
		}
	}
	a.mode = catalog.ModeFood
	if v, ok, err := a.store.Setting(ctx, store.SettingMode); err != nil {
		return err
	} else if ok {
		if parsed, err := catalog.ParseMode(v); err == nil {
			a.mode = parsed
		}
	}
	persona, err := catalog.Get(city)
	if err != nil {
		return err
	}
	a.persona = persona
	return nil
}

func (a *chatApp) loop(ctx context.Context) error {
	fmt.Printf("%s\n", a.persona.NativeGreeting)
	fmt.Printf("city=%s mode=%s  (/help for commands)\n\n", a.persona.ID, a.mode)

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if done, err := a.command(ctx, line, in); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			} else if done {
				return nil
			}
			continue
		}
		a.converse(ctx, line)
	}
}

func (a *chatApp) command(ctx context.Context, line string, in *bufio.Scanner) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/exit", "/quit":
		return true, nil
	case "/help":
		fmt.Println("/cities            list supported cities")
		fmt.Println("/city <id>         switch city")
		fmt.Println("/mode <m>          switch mode (food|slang|traffic|culture)")
		fmt.Println("/image <file>      save a city banner image")
		fmt.Println("/theme <t>         save the UI theme (dark|light)")
		fmt.Println("/clear             wipe history for the current city and mode")
		fmt.Println("/voice             start a live voice session (Enter to stop)")
		fmt.Println("/exit              leave")
		return false, nil
	case "/cities":
		for _, p := range catalog.All() {
			fmt.Printf("  %-20s %s\n", p.ID, p.Name)
		}
		return false, nil
	case "/city":
		city, err := catalog.ParseCity(arg)
		if err != nil {
			return false, err
		}
		persona, err := catalog.Get(city)
		if err != nil {
			return false, err
		}
		a.persona = persona
		if err := a.store.PutSetting(ctx, store.SettingCity, string(city)); err != nil {
			return false, err
		}
		fmt.Printf("%s\n", persona.NativeGreeting)
		return false, nil
	case "/mode":
		mode, err := catalog.ParseMode(arg)
		if err != nil {
			return false, err
		}
		a.mode = mode
		return false, a.store.PutSetting(ctx, store.SettingMode, string(mode))
	case "/theme":
		if arg == "" {
			return false, fmt.Errorf("usage: /theme <dark|light>")
		}
		return false, a.store.PutSetting(ctx, store.SettingTheme, arg)
	case "/clear":
		if err := a.store.ClearHistory(ctx, a.persona.ID, a.mode); err != nil {
			return false, err
		}
		fmt.Println("history cleared")
		return false, nil
	case "/image":
		if arg == "" {
			arg = fmt.Sprintf("%s.png", a.persona.ID)
		}
		img, _, err := a.client.CityImage(ctx, a.persona)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(arg, img, 0o644); err != nil {
			return false, err
		}
		fmt.Println("saved", arg)
		return false, nil
	case "/voice":
		return false, a.voiceSession(ctx, in)
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *chatApp) converse(ctx context.Context, prompt string) {
	history, err := a.store.History(ctx, a.persona.ID, a.mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return
	}
	userTurn := store.NewTurn(store.RoleUser, prompt, a.persona.ID, a.mode, nil)
	if err := a.store.PutTurn(ctx, userTurn); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return
	}

	reply, err := a.client.Converse(ctx, a.persona, a.mode, prompt, history)
	if err != nil {
		a.log.Warn("converse failed", "error", err)
		reply = gemini.Reply{Text: gemini.FallbackReply}
	}

	assistantTurn := store.NewTurn(store.RoleAssistant, reply.Text, a.persona.ID, a.mode, reply.Sources)
	if err := a.store.PutTurn(ctx, assistantTurn); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}

	fmt.Printf("\n%s\n", reply.Text)
	for _, src := range reply.Sources {
		fmt.Printf("  [%s] %s  %s\n", src.Kind, src.Title, src.URI)
	}
	fmt.Println()
}

// voiceSession runs one live conversation on the native devices until the
// user presses Enter.
func (a *chatApp) voiceSession(ctx context.Context, in *bufio.Scanner) error {
	fmt.Println("starting voice session, press Enter to stop")

	sess, err := voice.Start(ctx, voice.Config{
		Dial: a.client.LiveDialer(gemini.LiveConfig{Persona: a.persona, Mode: a.mode}),
		OpenCapture: func(ctx context.Context) (voice.CaptureSource, error) {
			return device.OpenMic(ctx)
		},
		OpenPlayer: func() (voice.Player, error) { return device.OpenSpeaker() },
		Logger:     a.log,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	stopped := make(chan struct{})
	go func() {
		in.Scan()
		close(stopped)
	}()

	for {
		select {
		case <-stopped:
			return sess.Close()
		case <-sess.Done():
			if err := sess.Err(); err != nil {
				return err
			}
			return nil
		case n := <-sess.Notifications():
			switch {
			case n.Phase == voice.PhaseListening && !n.Speaking:
				fmt.Println("[listening]")
			case n.Speaking:
				fmt.Println("[speaking]")
			}
		}
	}
}
