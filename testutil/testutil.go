package testutil

import (
	"fmt"
	"time"

	"github.com/autom8ter/tabkit"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/segmentio/ksuid"
)

// Kinds are the mock collection kinds that can be generated
var Kinds = []string{"products", "staff", "invoices"}

var (
	productStatuses = []string{"Available", "Out of Stock"}
	invoiceStatuses = []string{"Paid", "Pending", "Overdue"}
	departments     = []string{"Sales", "Support", "Warehouse", "Marketing"}
)

func mustRecord(value map[string]any) *tabkit.Record {
	r, err := tabkit.NewRecordFrom(value)
	if err != nil {
		panic(err)
	}
	return r
}

// NewProduct returns a mock inventory product
func NewProduct() *tabkit.Record {
	return mustRecord(map[string]any{
		"id":       ksuid.New().String(),
		"name":     fmt.Sprintf("%s %s", gofakeit.Adjective(), gofakeit.Noun()),
		"brand":    gofakeit.Company(),
		"category": gofakeit.RandomString([]string{"Sneakers", "Apparel", "Accessories"}),
		"price":    gofakeit.Price(10, 500),
		"stock":    gofakeit.IntRange(0, 200),
		"status":   gofakeit.RandomString(productStatuses),
		"added":    gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC().Format(time.RFC3339),
	})
}

// NewStaff returns a mock staff member
func NewStaff() *tabkit.Record {
	return mustRecord(map[string]any{
		"id":         ksuid.New().String(),
		"name":       gofakeit.Name(),
		"department": gofakeit.RandomString(departments),
		"role":       gofakeit.JobTitle(),
		"salary":     gofakeit.IntRange(30000, 150000),
		"active":     gofakeit.Bool(),
		"contact": map[string]any{
			"email": gofakeit.Email(),
			"phone": gofakeit.Phone(),
		},
		"hired": gofakeit.DateRange(time.Now().AddDate(-10, 0, 0), time.Now()).UTC().Format("2006-01-02"),
	})
}

// NewInvoice returns a mock invoice
func NewInvoice() *tabkit.Record {
	return mustRecord(map[string]any{
		"id":       ksuid.New().String(),
		"number":   fmt.Sprintf("INV-%06d", gofakeit.IntRange(1, 999999)),
		"customer": gofakeit.Name(),
		"amount":   gofakeit.Price(5, 5000),
		"status":   gofakeit.RandomString(invoiceStatuses),
		"issued":   gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()).UTC().Format(time.RFC3339),
	})
}

// NewCollection returns count mock records of the given kind
func NewCollection(kind string, count int) (tabkit.Records, error) {
	var gen func() *tabkit.Record
	switch kind {
	case "products":
		gen = NewProduct
	case "staff":
		gen = NewStaff
	case "invoices":
		gen = NewInvoice
	default:
		return nil, fmt.Errorf("unsupported collection kind: %s", kind)
	}
	records := make(tabkit.Records, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, gen())
	}
	return records, nil
}

// Sneakers returns a fixed product collection: 8 available and 4 out of stock records
func Sneakers() tabkit.Records {
	var values = []map[string]any{
		{"id": 1, "name": "Beigi Coffe (Navy)", "price": 120, "status": "Available", "added": "2023-01-05"},
		{"id": 2, "name": "Story Honzo", "price": 90, "status": "Available", "added": "2023-02-11"},
		{"id": 3, "name": "Kanky Kitadakate (Green)", "price": 150, "status": "Out of Stock", "added": "2022-12-24"},
		{"id": 4, "name": "Story Honzo (Cream)", "price": 90, "status": "Available", "added": "2023-03-02"},
		{"id": 5, "name": "Kanky Kitadakate (Black)", "price": 150, "status": "Available", "added": "2023-01-19"},
		{"id": 6, "name": "Beigi Coffe (Cream)", "price": 110, "status": "Out of Stock", "added": "2023-04-08"},
		{"id": 7, "name": "Nite Runner", "price": 200, "status": "Available", "added": "2022-11-30"},
		{"id": 8, "name": "Nite Runner (Gold)", "price": 230, "status": "Available", "added": "2023-05-14"},
		{"id": 9, "name": "Tazza Low", "price": 75, "status": "Out of Stock", "added": "2023-02-27"},
		{"id": 10, "name": "Tazza High", "price": 85, "status": "Available", "added": "2023-03-21"},
		{"id": 11, "name": "Orbit Classic", "price": 60, "status": "Available", "added": "2022-10-10"},
		{"id": 12, "name": "Orbit Classic (Red)", "price": 65, "status": "Out of Stock", "added": "2023-06-01"},
	}
	records, err := tabkit.NewRecordsFrom(values)
	if err != nil {
		panic(err)
	}
	return records
}
