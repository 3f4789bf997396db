package market

import "FuturesSentinel/internal/model"

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Tag   string
	Quote model.PriceQuote
	Err   error
}

func (m *MockSource) Name() string {
	if m.Tag != "" {
		return m.Tag
	}
	return "mock"
}

func (m *MockSource) FetchQuote() (model.PriceQuote, error) {
	if m.Err != nil {
		return model.PriceQuote{}, m.Err
	}
	return m.Quote, nil
}
