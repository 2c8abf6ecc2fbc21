package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PostingPolicy tunes the submission coordinator. It lives in a
// hot-reloadable file because operators adjust fan-out limits without
// restarting the service.
type PostingPolicy struct {
	// MaxConcurrency bounds the group-posting fan-out.
	MaxConcurrency int `mapstructure:"maxConcurrency"`
	// SubmitTimeoutSeconds is the per-target submission deadline.
	SubmitTimeoutSeconds int `mapstructure:"submitTimeoutSeconds"`
	// BalancingAccountID is the fallback account the balance enforcer
	// posts residuals against when a caller supplies none.
	BalancingAccountID int64 `mapstructure:"balancingAccountId"`
}

func DefaultPostingPolicy() PostingPolicy {
	return PostingPolicy{
		MaxConcurrency:       8,
		SubmitTimeoutSeconds: 15,
		BalancingAccountID:   0,
	}
}

type PostingPolicyHolder struct {
	current atomic.Value // holds PostingPolicy
}

func NewPostingPolicyHolder() (*PostingPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("posting")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/foliopost/config")
	v.AddConfigPath("/etc/foliopost")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FOLIOPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &PostingPolicyHolder{}

	load := func() PostingPolicy {
		cfg := DefaultPostingPolicy()
		if err := v.UnmarshalKey("posting", &cfg); err != nil {
			log.Printf("posting policy unmarshal failed, keeping defaults: %v", err)
			return DefaultPostingPolicy()
		}
		return sanitizePolicy(cfg)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultPostingPolicy())
	} else {
		holder.current.Store(load())
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		holder.current.Store(load())
	})
	v.WatchConfig()

	return holder, nil
}

func (h *PostingPolicyHolder) Current() PostingPolicy {
	if v, ok := h.current.Load().(PostingPolicy); ok {
		return v
	}
	return DefaultPostingPolicy()
}

func sanitizePolicy(p PostingPolicy) PostingPolicy {
	if p.MaxConcurrency < 1 {
		p.MaxConcurrency = 1
	}
	if p.SubmitTimeoutSeconds < 1 {
		p.SubmitTimeoutSeconds = DefaultPostingPolicy().SubmitTimeoutSeconds
	}
	return p
}
