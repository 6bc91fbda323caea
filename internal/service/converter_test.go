package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"currency-converter/internal/models"
)

func newTestConverter(source *mockSource) *Converter {
	catalog := models.NewCatalog(map[string]string{
		"USD": "United States Dollar",
		"EUR": "Euro",
		"GBP": "British Pound",
	})
	exchange := newTestExchangeService(source)
	return NewConverter(catalog, exchange, zap.NewNop())
}

func TestConverter_DefaultSelection(t *testing.T) {
	c := newTestConverter(&mockSource{})

	from, to := c.Selection()
	if from != "USD" || to != "EUR" {
		t.Errorf("Selection() = (%q, %q), want (USD, EUR)", from, to)
	}
}

func TestConverter_ConvertParsesAmount(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		wantOK    bool
		wantCalls int
	}{
		{
			name:      "valid amount",
			amount:    "100",
			wantOK:    true,
			wantCalls: 1,
		},
		{
			name:      "valid amount with whitespace",
			amount:    " 2.50 ",
			wantOK:    true,
			wantCalls: 1,
		},
		{
			name:      "non-numeric",
			amount:    "abc",
			wantOK:    false,
			wantCalls: 0,
		},
		{
			name:      "empty",
			amount:    "",
			wantOK:    false,
			wantCalls: 0,
		},
		{
			name:      "negative",
			amount:    "-5",
			wantOK:    false,
			wantCalls: 0,
		},
		{
			name:      "zero",
			amount:    "0",
			wantOK:    false,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockSource{rates: map[string]float64{"USD:EUR": 0.9}}
			c := newTestConverter(source)

			result := c.Convert(context.Background(), tt.amount)

			if result.OK != tt.wantOK {
				t.Errorf("Convert(%q) OK = %v, want %v", tt.amount, result.OK, tt.wantOK)
			}
			if !tt.wantOK && result.Message != models.MsgInvalidAmount {
				t.Errorf("Convert(%q) message = %q, want %q", tt.amount, result.Message, models.MsgInvalidAmount)
			}
			if source.rateCalls != tt.wantCalls {
				t.Errorf("rate source called %d times, want %d", source.rateCalls, tt.wantCalls)
			}
		})
	}
}

func TestConverter_SwapUsesSwappedPair(t *testing.T) {
	source := &mockSource{rates: map[string]float64{
		"USD:EUR": 0.9,
		"EUR:USD": 1.0 / 0.9,
	}}
	c := newTestConverter(source)

	result := c.Swap(context.Background(), "100")
	if !result.OK {
		t.Fatalf("Swap() failed: %v", result.Message)
	}

	if source.lastFrom != "EUR" || source.lastTo != "USD" {
		t.Errorf("rate lookup used (%q, %q), want post-swap (EUR, USD)", source.lastFrom, source.lastTo)
	}

	from, to := c.Selection()
	if from != "EUR" || to != "USD" {
		t.Errorf("Selection() after swap = (%q, %q), want (EUR, USD)", from, to)
	}
}

func TestConverter_SwapKeepsValidationContract(t *testing.T) {
	source := &mockSource{rates: map[string]float64{"EUR:USD": 1.1}}
	c := newTestConverter(source)

	result := c.Swap(context.Background(), "not a number")

	if result.OK {
		t.Fatal("Swap() succeeded with invalid amount")
	}
	if result.Message != models.MsgInvalidAmount {
		t.Errorf("Swap() message = %q, want %q", result.Message, models.MsgInvalidAmount)
	}
	if source.rateCalls != 0 {
		t.Errorf("rate source called %d times, want 0", source.rateCalls)
	}

	// The selection still swaps; only the conversion is rejected.
	from, to := c.Selection()
	if from != "EUR" || to != "USD" {
		t.Errorf("Selection() after swap = (%q, %q), want (EUR, USD)", from, to)
	}
}

func TestConverter_Select(t *testing.T) {
	c := newTestConverter(&mockSource{})

	if err := c.Select("GBP", "USD"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	from, to := c.Selection()
	if from != "GBP" || to != "USD" {
		t.Errorf("Selection() = (%q, %q), want (GBP, USD)", from, to)
	}

	err := c.Select("XXX", "USD")
	if !errors.Is(err, models.ErrUnknownCurrency) {
		t.Errorf("Select(XXX, USD) error = %v, want ErrUnknownCurrency", err)
	}
}

// slowSource always answers, slowly, and records whether two rate lookups
// were ever in flight at the same time.
type slowSource struct {
	active  int32
	overlap int32
	calls   int32
}

func (s *slowSource) Currencies(_ context.Context) (map[string]string, error) {
	return nil, errors.New("not used")
}

func (s *slowSource) PairRate(_ context.Context, from, to string) (*models.ExchangeRate, error) {
	if atomic.AddInt32(&s.active, 1) > 1 {
		atomic.StoreInt32(&s.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&s.active, -1)
	atomic.AddInt32(&s.calls, 1)
	return &models.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         1,
		Timestamp:    time.Now(),
		Source:       "mock",
	}, nil
}

func TestConverter_SerializesAttempts(t *testing.T) {
	source := &slowSource{}
	catalog := models.NewCatalog(map[string]string{
		"USD": "United States Dollar",
		"EUR": "Euro",
	})
	exchange := NewExchangeService(source, nil, nil, zap.NewNop())
	c := NewConverter(catalog, exchange, zap.NewNop())

	const attempts = 8

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(swap bool) {
			defer wg.Done()
			var result *models.ConversionResult
			if swap {
				result = c.Swap(context.Background(), "100")
			} else {
				result = c.Convert(context.Background(), "100")
			}
			if !result.OK {
				t.Errorf("attempt failed: %v", result.Message)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	if atomic.LoadInt32(&source.overlap) != 0 {
		t.Error("two conversion attempts were in flight at once")
	}
	if got := atomic.LoadInt32(&source.calls); got != attempts {
		t.Errorf("rate source called %d times, want %d", got, attempts)
	}
}

func TestConverter_ConvertUsesCurrentSelection(t *testing.T) {
	source := &mockSource{rates: map[string]float64{"GBP:EUR": 1.15}}
	c := newTestConverter(source)

	if err := c.Select("GBP", "EUR"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	result := c.Convert(context.Background(), "10")
	if !result.OK {
		t.Fatalf("Convert() failed: %v", result.Message)
	}
	if source.lastFrom != "GBP" || source.lastTo != "EUR" {
		t.Errorf("rate lookup used (%q, %q), want (GBP, EUR)", source.lastFrom, source.lastTo)
	}
}
