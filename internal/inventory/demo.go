package inventory

import "github.com/andresuchdata/stockroom/internal/domain"

// DemoProducts is the sample shop loaded when SEED_DEMO_DATA is on.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Ceramic Vase - Blue", Category: "Homeware", Supplier: "Acme Ceramics", Cost: 8.50, RRP: 24.00, Stock: 45, SalesLastMonth: 4, SalesHistorical: 120},
		{ID: "2", Name: "Scented Candle - Fig", Category: "Gifts", Supplier: "Wax Works", Cost: 3.50, RRP: 12.00, Stock: 12, SalesLastMonth: 48, SalesHistorical: 500},
		{ID: "3", Name: "Linen Shirt - White", Category: "Clothing", Supplier: "Natural Fibres", Cost: 15.00, RRP: 45.00, Stock: 8, SalesLastMonth: 15, SalesHistorical: 200},
		{ID: "4", Name: "Oak Picture Frame", Category: "Homeware", Supplier: "Frame It", Cost: 6.00, RRP: 18.00, Stock: 60, SalesLastMonth: 2, SalesHistorical: 50},
		{ID: "5", Name: "Greeting Card - Bday", Category: "Gifts", Supplier: "Paper Dreams", Cost: 0.45, RRP: 2.95, Stock: 150, SalesLastMonth: 80, SalesHistorical: 1200},
	}
}
