package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

var ErrTokenMissing = errors.New("transport: sign-in response carried no token")

// Credentials are posted to the sign-in endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the outcome of a successful sign-in.
type Session struct {
	Token string
}

type signInResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	Data        *struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

func (r signInResponse) token() string {
	for _, candidate := range []string{r.Token, r.AccessToken} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	if r.Data != nil {
		if strings.TrimSpace(r.Data.Token) != "" {
			return r.Data.Token
		}
		return r.Data.AccessToken
	}
	return ""
}

// SignIn authenticates and stores the returned token on the client. Only
// failures where no response was received are retried, SignIn.Retries times
// with a fixed SignIn.Delay between attempts.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint, err := c.routes.SignIn()
	if err != nil {
		return Session{}, err
	}
	body, err := json.Marshal(creds)
	if err != nil {
		return Session{}, err
	}

	var data []byte
	for attempt := 0; ; attempt++ {
		data, err = c.do(ctx, http.MethodPost, endpoint, body, "application/json")
		if err == nil || !IsTransport(err) || attempt >= c.signIn.Retries {
			break
		}
		c.logger.Info("transport.signin.retry", "attempt", attempt+1, "delay_ms", c.signIn.Delay.Milliseconds())
		if sleepErr := c.sleep(ctx, c.signIn.Delay); sleepErr != nil {
			return Session{}, err
		}
	}
	if err != nil {
		return Session{}, err
	}

	var resp signInResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Session{}, decodeError(http.MethodPost, endpoint, err)
	}
	token := resp.token()
	if token == "" {
		return Session{}, goerrors.Wrap(ErrTokenMissing, CategoryApplication, "sign-in failed").WithTextCode(TextCodeApplication)
	}
	c.SetToken(token)
	return Session{Token: token}, nil
}
