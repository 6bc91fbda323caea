package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"currency-converter/internal/models"
)

func TestLoadCatalog_SortsAndLabels(t *testing.T) {
	source := &mockSource{currencies: map[string]string{
		"USD": "United States Dollar",
		"EUR": "Euro",
		"AUD": "Australian Dollar",
	}}
	s := NewCatalogService(source, zap.NewNop())

	catalog, err := s.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	wantCodes := []string{"AUD", "EUR", "USD"}
	if !reflect.DeepEqual(catalog.Codes(), wantCodes) {
		t.Errorf("Codes() = %v, want %v", catalog.Codes(), wantCodes)
	}

	options := catalog.Options()
	if options[2].Label != "USD - United States Dollar" {
		t.Errorf("option label = %q, want %q", options[2].Label, "USD - United States Dollar")
	}
}

func TestLoadCatalog_DefaultSelection(t *testing.T) {
	tests := []struct {
		name       string
		currencies map[string]string
		wantFrom   string
		wantTo     string
	}{
		{
			name: "USD and EUR present",
			currencies: map[string]string{
				"USD": "United States Dollar",
				"EUR": "Euro",
				"GBP": "British Pound",
			},
			wantFrom: "USD",
			wantTo:   "EUR",
		},
		{
			name: "USD absent falls back to first entry",
			currencies: map[string]string{
				"EUR": "Euro",
				"GBP": "British Pound",
			},
			wantFrom: "EUR",
			wantTo:   "EUR",
		},
		{
			name: "EUR absent falls back to first entry",
			currencies: map[string]string{
				"USD": "United States Dollar",
				"GBP": "British Pound",
			},
			wantFrom: "USD",
			wantTo:   "GBP",
		},
		{
			name: "both absent fall back to first entry",
			currencies: map[string]string{
				"JPY": "Japanese Yen",
				"GBP": "British Pound",
			},
			wantFrom: "GBP",
			wantTo:   "GBP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockSource{currencies: tt.currencies}
			s := NewCatalogService(source, zap.NewNop())

			catalog, err := s.LoadCatalog(context.Background())
			if err != nil {
				t.Fatalf("LoadCatalog() error = %v", err)
			}

			from, to := catalog.DefaultSelection()
			if from != tt.wantFrom || to != tt.wantTo {
				t.Errorf("DefaultSelection() = (%q, %q), want (%q, %q)", from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestLoadCatalog_FetchFailure(t *testing.T) {
	source := &mockSource{currenciesErr: errors.New("API returned status 500")}
	s := NewCatalogService(source, zap.NewNop())

	catalog, err := s.LoadCatalog(context.Background())
	if err == nil {
		t.Fatal("LoadCatalog() succeeded on failing source")
	}
	if !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("LoadCatalog() error = %v, want ErrCatalogUnavailable", err)
	}
	if catalog != nil {
		t.Errorf("LoadCatalog() catalog = %v, want nil", catalog)
	}
}
