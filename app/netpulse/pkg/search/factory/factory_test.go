package factory

import (
	"errors"
	"testing"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/config"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/exa"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/searxng"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/tavily"
)

func TestNewSearcher(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Tavily.APIKey = "t"
	cfg.Search.Exa.APIKey = "e"
	cfg.Search.SearXNG.BaseURL = "http://localhost:8888"

	cfg.Search.Provider = ""
	if s, err := NewSearcher(cfg); err != nil {
		t.Fatalf("NewSearcher() error = %v", err)
	} else if _, ok := s.(*tavily.Client); !ok {
		t.Errorf("default provider = %T, want *tavily.Client", s)
	}

	cfg.Search.Provider = ProviderExa
	if s, _ := NewSearcher(cfg); s == nil {
		t.Error("exa searcher is nil")
	} else if _, ok := s.(*exa.Client); !ok {
		t.Errorf("exa provider = %T", s)
	}

	cfg.Search.Provider = ProviderSearXNG
	if s, _ := NewSearcher(cfg); s == nil {
		t.Error("searxng searcher is nil")
	} else if _, ok := s.(*searxng.Client); !ok {
		t.Errorf("searxng provider = %T", s)
	}

	cfg.Search.Provider = "bing"
	if _, err := NewSearcher(cfg); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestNewSearcher_MissingKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Provider = ProviderTavily
	_, err := NewSearcher(cfg)
	var mk *config.MissingKeyError
	if !errors.As(err, &mk) || mk.Key != "TAVILY_API_KEY" {
		t.Errorf("NewSearcher() error = %v, want missing TAVILY_API_KEY", err)
	}
}
