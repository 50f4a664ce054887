package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// QuotingConfig holds document-presentation settings for exported quotes.
// Formula parameters live on per-organization pricing configurations; this
// file only controls how finished quotes are numbered and rendered.
type QuotingConfig struct {
	NumberTemplate string `mapstructure:"numberTemplate"`
	CompanyName    string `mapstructure:"companyName"`
	PrimaryColor   string `mapstructure:"primaryColor"`
	FooterNotes    string `mapstructure:"footerNotes"`
	CSVDelimiter   string `mapstructure:"csvDelimiter"`
}

func DefaultQuotingConfig() QuotingConfig {
	return QuotingConfig{
		NumberTemplate: "Q-{YYYY}{MM}{DD}-{SEQ4}",
		CompanyName:    "",
		PrimaryColor:   "#111827",
		FooterNotes:    "",
		CSVDelimiter:   ",",
	}
}

// QuotingConfigHolder serves the current quoting config and hot-reloads it
// when the file changes.
type QuotingConfigHolder struct {
	current atomic.Value // holds QuotingConfig
}

func NewQuotingConfigHolder() (*QuotingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("quoting")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/quotegen")
	v.AddConfigPath(".")

	v.SetEnvPrefix("QUOTEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultQuotingConfig()
	v.SetDefault("quoting.numberTemplate", defaults.NumberTemplate)
	v.SetDefault("quoting.companyName", defaults.CompanyName)
	v.SetDefault("quoting.primaryColor", defaults.PrimaryColor)
	v.SetDefault("quoting.footerNotes", defaults.FooterNotes)
	v.SetDefault("quoting.csvDelimiter", defaults.CSVDelimiter)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg QuotingConfig
	if err := v.UnmarshalKey("quoting", &cfg); err != nil {
		return nil, err
	}
	if err := validateQuotingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &QuotingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated QuotingConfig
		if err := v.UnmarshalKey("quoting", &updated); err != nil {
			log.Printf("[quoting-config] reload failed: %v", err)
			return
		}
		if err := validateQuotingConfig(updated); err != nil {
			log.Printf("[quoting-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[quoting-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticQuotingConfigHolder returns a holder pinned to cfg with no file
// watching behind it.
func NewStaticQuotingConfigHolder(cfg QuotingConfig) *QuotingConfigHolder {
	holder := &QuotingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *QuotingConfigHolder) Get() QuotingConfig {
	return h.current.Load().(QuotingConfig)
}

func validateQuotingConfig(cfg QuotingConfig) error {
	if strings.TrimSpace(cfg.NumberTemplate) == "" {
		return errors.New("quoting.numberTemplate cannot be empty")
	}
	if len(cfg.CSVDelimiter) != 1 {
		return errors.New("quoting.csvDelimiter must be a single character")
	}
	return nil
}
