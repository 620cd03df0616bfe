package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/andr171p/ssoauth/credential"
	"github.com/andr171p/ssoauth/internal/config"
	"github.com/andr171p/ssoauth/internal/health"
	"github.com/andr171p/ssoauth/internal/jwtsign"
	"github.com/andr171p/ssoauth/oauthengine"
	"github.com/andr171p/ssoauth/oauthengine/codes"
	"github.com/andr171p/ssoauth/realmswitch"
	"github.com/andr171p/ssoauth/roles"
	"github.com/andr171p/ssoauth/session"
	"github.com/andr171p/ssoauth/sessionstore"
	"github.com/andr171p/ssoauth/sessionstore/memstore"
	"github.com/andr171p/ssoauth/sessionstore/redisstore"
	"github.com/andr171p/ssoauth/sso"
	"github.com/andr171p/ssoauth/storage/memory"
	"github.com/andr171p/ssoauth/token"
)

type serveOptions struct {
	config string

	healthAddr string
}

func commandServe() *cobra.Command {
	options := serveOptions{}

	cmd := &cobra.Command{
		Use:     "serve [flags] [config file]",
		Short:   "Run the ssoauthd core as a long-lived process",
		Example: "ssoauthd serve config.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			options.config = args[0]
			return runServe(options)
		},
	}

	cmd.Flags().StringVar(&options.healthAddr, "health-addr", ":8081", "health check HTTP address")

	return cmd
}

// buildCore wires every component into a sso.Core, choosing an in-memory
// or Redis-backed sessionstore depending on whether Redis is configured
// (spec.md §1: "the core assumes a single logical session store"). runServe
// calls Config.Validate first, which requires redis.host, so the serve
// command always gets the Redis store; the in-memory branch is reached only
// by callers that build a Core from an unvalidated Config, such as tests.
func buildCore(c config.Config) (*sso.Core, sessionstore.Store[session.Session], error) {
	signer := jwtsign.New([]byte(c.JWT.SecretKey), c.Issuer)

	var sessions sessionstore.Store[session.Session]
	var codesStore sessionstore.Store[codes.Codes]
	if c.Redis.Host != "" {
		client := redisstore.NewClient(redisstore.Options{
			Host: c.Redis.Host, Port: c.Redis.Port, User: c.Redis.User, Password: c.Redis.Password, DB: c.Redis.DB,
		})
		sessions = redisstore.New[session.Session](client, session.KeyPrefix)
		codesStore = redisstore.New[codes.Codes](client, codes.KeyPrefix)
	} else {
		sessions = memstore.New[session.Session](session.KeyPrefix)
		codesStore = memstore.New[codes.Codes](codes.KeyPrefix)
	}

	// Repository backends are an external collaborator's concern
	// (spec.md §1); the in-memory backend stands in until a Postgres-backed
	// implementation is wired in its place.
	backend := memory.NewBackend()

	tokens := token.New(signer, sessions)
	resolver := roles.New(backend.Users)
	verifier := credential.New(backend.Realms, backend.Clients, backend.Users, sessions, resolver, tokens)
	rswitch := realmswitch.New(backend.Realms, backend.Users, resolver, tokens)

	var providers []oauthengine.Provider
	if c.OAuth2.VK.AppID != "" {
		vk, err := oauthengine.NewVK(oauthengine.VKConfig{
			AppID: c.OAuth2.VK.AppID, AppSecret: c.OAuth2.VK.AppSecret, RedirectURI: c.OAuth2.VK.RedirectURI,
		})
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, vk)
	}
	if c.OAuth2.Yandex.AppID != "" {
		yandex, err := oauthengine.NewYandex(oauthengine.YandexConfig{
			AppID: c.OAuth2.Yandex.AppID, AppSecret: c.OAuth2.Yandex.AppSecret,
		})
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, yandex)
	}
	engine := oauthengine.New(providers, backend.IdentityProviders, codesStore, verifier)

	return &sso.Core{
		Credential:  verifier,
		OAuth:       engine,
		RealmSwitch: rswitch,
		Tokens:      tokens,
		Roles:       resolver,
		Sessions:    sessions,
	}, sessions, nil
}

// Mux is the extension point an HTTP collaborator binds request routing
// to; this process only wires the core and its health surface, since
// request/response mapping is out of scope here.
func Mux(core *sso.Core) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not implemented: bind a transport to sso.Core", http.StatusNotImplemented)
	})
}

func runServe(options serveOptions) error {
	data, err := os.ReadFile(options.config)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", options.config, err)
	}

	c, err := config.Load(data)
	if err != nil {
		return err
	}
	c = config.FromEnv(c)

	if err := c.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(c.Logger.Level, c.Logger.Format)
	if err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}
	logger.Infof("config issuer: %s", c.Issuer)

	core, sessions, err := buildCore(c)
	if err != nil {
		return fmt.Errorf("failed to wire core: %v", err)
	}
	mux := Mux(core)
	_ = mux // handed to an HTTP collaborator; request routing is out of scope here

	checker := health.New(sessions)
	healthSrv := &http.Server{Addr: options.healthAddr, Handler: health.Handler(checker)}

	var gr run.Group
	gr.Add(func() error {
		logger.Infof("listening (health) on %s", options.healthAddr)
		return healthSrv.ListenAndServe()
	}, func(err error) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		logger.Debugf("starting graceful shutdown (health)")
		if err := healthSrv.Shutdown(ctx); err != nil {
			logger.Errorf("graceful shutdown (health): %v", err)
		}
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	gr.Add(func() error {
		<-ctx.Done()
		return ctx.Err()
	}, func(error) {
		cancel()
	})

	if err := gr.Run(); err != nil {
		logger.Infof("%v, shutdown now", err)
	}
	return nil
}
