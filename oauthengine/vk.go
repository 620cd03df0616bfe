package oauthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/andr171p/ssoauth/internal/errs"
	"github.com/andr171p/ssoauth/internal/ids"
)

const (
	vkAuthorizeURL = "https://id.vk.com/authorize"
	vkTokenURL     = "https://id.vk.com/oauth2/auth"
	vkUserInfoURL  = "https://id.vk.com/oauth2/user_info"
)

// VKConfig carries VK_APP_ID / VK_APP_SECRET / VK_REDIRECT_URI (spec.md §6).
type VKConfig struct {
	AppID       string
	AppSecret   string
	RedirectURI string
}

// VKProvider implements Provider for VK's Authorization Code + PKCE flow
// (spec.md §6 "VK" wire contract).
type VKProvider struct {
	cfg    VKConfig
	client *http.Client
}

// NewVK returns a VKProvider with a hardened HTTP client.
func NewVK(cfg VKConfig) (*VKProvider, error) {
	client, err := newHTTPClient()
	if err != nil {
		return nil, err
	}
	return &VKProvider{cfg: cfg, client: client}, nil
}

func (p *VKProvider) Name() string { return "vk" }

func (p *VKProvider) AuthorizationURL(state, codeChallenge string) string {
	q := url.Values{}
	q.Set("client_id", p.cfg.AppID)
	q.Set("redirect_uri", p.cfg.RedirectURI)
	q.Set("response_type", "code")
	q.Set("state", state)
	q.Set("scope", "email")
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "S256")
	return vkAuthorizeURL + "?" + q.Encode()
}

type vkTokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	ClientID     string `json:"client_id"`
	DeviceID     string `json:"device_id"`
	RedirectURI  string `json:"redirect_uri"`
	State        string `json:"state"`
}

type vkTokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
}

func (p *VKProvider) Exchange(ctx context.Context, code, codeVerifier, state string) (string, error) {
	body, err := json.Marshal(vkTokenRequest{
		GrantType:    "authorization_code",
		Code:         code,
		CodeVerifier: codeVerifier,
		ClientID:     p.cfg.AppID,
		DeviceID:     ids.New(),
		RedirectURI:  p.cfg.RedirectURI,
		State:        state,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, vkTokenURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.BadRequest, "vk token exchange failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errs.New(errs.BadRequest, fmt.Sprintf("vk token exchange: status %d", resp.StatusCode))
	}

	var out vkTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.Wrap(errs.BadRequest, "vk token response decode failed", err)
	}
	return out.AccessToken, nil
}

type vkUserInfoRequest struct {
	AccessToken string `json:"access_token"`
	ClientID    string `json:"client_id"`
}

type vkUserInfoResponse struct {
	User struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	} `json:"user"`
}

func (p *VKProvider) UserInfo(ctx context.Context, accessToken string) (Identity, error) {
	body, err := json.Marshal(vkUserInfoRequest{AccessToken: accessToken, ClientID: p.cfg.AppID})
	if err != nil {
		return Identity{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, vkUserInfoURL, bytes.NewReader(body))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Identity{}, errs.Wrap(errs.BadRequest, "vk userinfo failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return Identity{}, errs.New(errs.BadRequest, fmt.Sprintf("vk userinfo: status %d body %s", resp.StatusCode, data))
	}

	var out vkUserInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Identity{}, errs.Wrap(errs.BadRequest, "vk userinfo decode failed", err)
	}

	return Identity{ProviderUserID: out.User.UserID, Email: lowercase(out.User.Email)}, nil
}
