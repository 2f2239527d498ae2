// Package config reads the seller account profile file: one ini section per
// account carrying the marketplace and (optionally) advertising credentials.
package config

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/ini.v1"
)

// ErrAccountNotFound is returned when the profile file has no section for
// the requested account.
var ErrAccountNotFound = errors.New("account not found")

// Account is one configured seller profile.
type Account struct {
	Name            string
	AccountID       string
	APIKey          string
	AdsClientID     string
	AdsClientSecret string
}

// HasAds reports whether the profile carries advertising credentials.
func (a Account) HasAds() bool {
	return a.AdsClientID != "" && a.AdsClientSecret != ""
}

type Registry interface {
	GetAccounts(ctx context.Context) ([]Account, error)
	GetAccount(ctx context.Context, name string) (*Account, error)
}

type accountRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &accountRegistry{cfg: cfg}, nil
}

func (r *accountRegistry) GetAccounts(_ context.Context) ([]Account, error) {
	var accounts []Account
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		accounts = append(accounts, sectionAccount(section))
	}
	return accounts, nil
}

func (r *accountRegistry) GetAccount(_ context.Context, name string) (*Account, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", name, ErrAccountNotFound)
	}
	account := sectionAccount(section)
	if account.AccountID == "" || account.APIKey == "" {
		return nil, fmt.Errorf("account %s is missing marketplace credentials", name)
	}
	return &account, nil
}

func sectionAccount(section *ini.Section) Account {
	return Account{
		Name:            section.Name(),
		AccountID:       section.Key("account_id").String(),
		APIKey:          section.Key("api_key").String(),
		AdsClientID:     section.Key("ads_client_id").String(),
		AdsClientSecret: section.Key("ads_client_secret").String(),
	}
}
