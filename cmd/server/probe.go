package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/auth/token"
	"github.com/golang-jwt/jwt"
	"github.com/spf13/cobra"

	"github.com/authguard/internal/apipaths"
	"github.com/authguard/internal/constants"
	"github.com/authguard/internal/guard"
	"github.com/authguard/internal/navigation"
	"github.com/authguard/internal/session"
)

// probeCmd resolves a session against a running server the way a browser
// client would, and reports where the redirect guard leaves it
func probeCmd() *cobra.Command {
	var jwtToken string

	cmd := &cobra.Command{
		Use:   "probe <base-url> [path]",
		Short: "Check a session against a running server and show where the guard sends it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := url.Parse(strings.TrimSuffix(args[0], "/"))
			if err != nil {
				return fmt.Errorf("parse base url: %w", err)
			}
			start := cfg.Routes.HomePath
			if len(args) == 2 {
				start = args[1]
			}

			jar, err := cookiejar.New(nil)
			if err != nil {
				return err
			}
			if jwtToken != "" {
				describeToken(cmd.OutOrStdout(), jwtToken, time.Now())
				jar.SetCookies(base, []*http.Cookie{{Name: constants.JWTCookieName, Value: jwtToken, Path: "/"}})
			}

			store := session.NewStore()
			history := navigation.NewHistory(start)
			g := guard.New(store, history, history,
				guard.WithAuthPath(cfg.Routes.AuthPath),
				guard.WithHomePath(cfg.Routes.HomePath),
				guard.WithLogger(log),
			)
			g.Start()
			defer g.Stop()

			resolver := session.NewResolver(store, session.NewHTTPChecker(base.String()+apipaths.Me, jar), log)
			if err := resolver.Resolve(cmd.Context()); err != nil {
				return err
			}

			loc := history.Location()
			target := loc.Pathname
			if len(loc.Search) > 0 {
				target += "?" + loc.Search.Encode()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "authenticated=%t location=%s view=%s\n",
				store.State().Authenticated, target, g.View())
			return nil
		},
	}
	cmd.Flags().StringVar(&jwtToken, "token", "", "JWT to send as the session cookie")

	return cmd
}

// describeToken prints the user and expiry a token claims without verifying
// it. The server decides; an expired token is still refreshed while its cookie
// lives, so expiry alone does not mean the probe will end up anonymous.
func describeToken(w io.Writer, raw string, now time.Time) {
	var claims token.Claims
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, &claims); err != nil {
		fmt.Fprintf(w, "token unreadable: %v\n", err)
		return
	}

	user := "-"
	if claims.User != nil {
		user = claims.User.Name
	}
	expires := "never"
	if claims.ExpiresAt != 0 {
		exp := time.Unix(claims.ExpiresAt, 0).UTC()
		expires = exp.Format(time.RFC3339)
		if now.After(exp) {
			expires += " (expired)"
		}
	}
	fmt.Fprintf(w, "token user=%s expires=%s\n", user, expires)
}
