package ibp

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuthConfig switches the client from basic auth to the OAuth2 client
// credentials grant.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

func (o *OAuthConfig) client(base *http.Client) *http.Client {
	cc := clientcredentials.Config{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		TokenURL:     o.TokenURL,
		Scopes:       o.Scopes,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	return cc.Client(ctx)
}
