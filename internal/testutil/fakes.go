package testutil

import (
	"context"
	"fmt"
	"sync"
)

// SentEmail records one call to FakeSender.Send.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// FakeSender implements mailer.Sender, recording every send. Set Fail to make
// deliveries report failure while still recording the attempt.
type FakeSender struct {
	mu   sync.Mutex
	Fail bool
	Sent []SentEmail
}

// Send records the email and reports success unless Fail is set.
func (f *FakeSender) Send(to, subject, body string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, SentEmail{To: to, Subject: subject, Body: body})
	return !f.Fail
}

// SentCount returns the number of recorded sends.
func (f *FakeSender) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// StubSource implements prices.Source from fixed maps. Lookups with no entry
// return an error, which the pipeline treats as "skip this asset".
type StubSource struct {
	CryptoPrices      map[string]float64
	CollectiblePrices map[string]float64
}

// CryptoPrice returns the stubbed quote for symbol.
func (s *StubSource) CryptoPrice(_ context.Context, symbol string) (float64, error) {
	price, ok := s.CryptoPrices[symbol]
	if !ok {
		return 0, fmt.Errorf("no stub price for symbol %s", symbol)
	}
	return price, nil
}

// CollectiblePrice returns the stubbed floor price for collection.
func (s *StubSource) CollectiblePrice(_ context.Context, collection string) (float64, error) {
	price, ok := s.CollectiblePrices[collection]
	if !ok {
		return 0, fmt.Errorf("no stub price for collection %s", collection)
	}
	return price, nil
}
