package oauthengine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/andr171p/ssoauth/internal/errs"
)

const (
	yandexAuthorizationURL = "https://oauth.yandex.ru/authorize"
	yandexTokenURL         = "https://oauth.yandex.ru/token"
	yandexUserInfoURL      = "https://login.yandex.ru/info"
)

// YandexConfig carries YANDEX_APP_ID / YANDEX_APP_SECRET (spec.md §6).
type YandexConfig struct {
	AppID     string
	AppSecret string
}

// YandexProvider implements Provider using golang.org/x/oauth2.Config,
// since Yandex's token endpoint speaks standard form-encoded OAuth2
// (spec.md §6 "Yandex" wire contract) unlike VK's JSON body.
type YandexProvider struct {
	cfg    YandexConfig
	oauth2 *oauth2.Config
	client *http.Client
}

// NewYandex returns a YandexProvider with a hardened HTTP client.
func NewYandex(cfg YandexConfig) (*YandexProvider, error) {
	client, err := newHTTPClient()
	if err != nil {
		return nil, err
	}
	return &YandexProvider{
		cfg: cfg,
		oauth2: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			Endpoint:     oauth2.Endpoint{AuthURL: yandexAuthorizationURL, TokenURL: yandexTokenURL},
			Scopes:       []string{"login:info", "login:email"},
		},
		client: client,
	}, nil
}

func (p *YandexProvider) Name() string { return "yandex" }

func (p *YandexProvider) AuthorizationURL(state, codeChallenge string) string {
	return p.oauth2.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *YandexProvider) Exchange(ctx context.Context, code, codeVerifier, state string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	tok, err := p.oauth2.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return "", errs.Wrap(errs.BadRequest, "yandex token exchange failed", err)
	}
	return tok.AccessToken, nil
}

type yandexUserInfoResponse struct {
	ID           string `json:"id"`
	DefaultEmail string `json:"default_email"`
}

func (p *YandexProvider) UserInfo(ctx context.Context, accessToken string) (Identity, error) {
	q := url.Values{}
	q.Set("oauth_token", accessToken)
	q.Set("format", "json")
	u := yandexUserInfoURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Identity{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Identity{}, errs.Wrap(errs.BadRequest, "yandex userinfo failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, errs.New(errs.BadRequest, fmt.Sprintf("yandex userinfo: status %d", resp.StatusCode))
	}

	var out yandexUserInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Identity{}, errs.Wrap(errs.BadRequest, "yandex userinfo decode failed", err)
	}

	return Identity{ProviderUserID: out.ID, Email: lowercase(out.DefaultEmail)}, nil
}
