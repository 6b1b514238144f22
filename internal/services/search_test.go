package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSearchKeywordOnly(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	r := newTestRepos(t, db, log)
	cat := mustCreateCategory(t, r, "Electronics")
	mustCreateProduct(t, r, cat.ID, "Gaming Laptop", "fast laptop", 1200, 5)
	mustCreateProduct(t, r, cat.ID, "Mouse", "wireless mouse", 25, 10)
	mustCreateProduct(t, r, cat.ID, "Laptop Sleeve", "fits any laptop", 30, 0)

	search := NewSearchService(db, log, NewTokenizer(), r.product, r.history, &fakeEmbedder{}, &fakeVectorStore{})

	products, err := search.Search(context.Background(), SearchParams{Query: "laptop"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("results: want=1 got=%d", len(products))
	}
	if products[0].Name != "Gaming Laptop" {
		t.Fatalf("result: want=Gaming Laptop got=%q", products[0].Name)
	}
}

func TestSearchExcludesOutOfStockByDefault(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	r := newTestRepos(t, db, log)
	cat := mustCreateCategory(t, r, "Electronics")
	mustCreateProduct(t, r, cat.ID, "Laptop", "", 1200, 0)

	search := NewSearchService(db, log, NewTokenizer(), r.product, r.history, &fakeEmbedder{}, &fakeVectorStore{})

	products, err := search.Search(context.Background(), SearchParams{Query: "laptop"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("out-of-stock product leaked into results: %v", products)
	}
}

func TestSearchEmptyQueryReturnsAllInStock(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	r := newTestRepos(t, db, log)
	cat := mustCreateCategory(t, r, "Electronics")
	mustCreateProduct(t, r, cat.ID, "Laptop", "", 1200, 5)
	mustCreateProduct(t, r, cat.ID, "Mouse", "", 25, 10)
	mustCreateProduct(t, r, cat.ID, "Keyboard", "", 60, 0)

	search := NewSearchService(db, log, NewTokenizer(), r.product, r.history, &fakeEmbedder{}, &fakeVectorStore{})

	products, err := search.Search(context.Background(), SearchParams{Query: ""})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("results: want=2 got=%d", len(products))
	}
}

func TestSearchPriceBounds(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	r := newTestRepos(t, db, log)
	cat := mustCreateCategory(t, r, "Electronics")
	mustCreateProduct(t, r, cat.ID, "Laptop Basic", "laptop", 500, 5)
	mustCreateProduct(t, r, cat.ID, "Laptop Pro", "laptop", 2000, 5)

	search := NewSearchService(db, log, NewTokenizer(), r.product, r.history, &fakeEmbedder{}, &fakeVectorStore{})

	minPrice := 400.0
	maxPrice := 1000.0
	products, err := search.Search(context.Background(), SearchParams{
		Query:    "laptop",
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Laptop Basic" {
		t.Fatalf("price filter mismatch: got=%v", products)
	}
}

func TestSearchMergesVectorResultsAfterKeyword(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	r := newTestRepos(t, db, log)
	cat := mustCreateCategory(t, r, "Electronics")
	laptop := mustCreateProduct(t, r, cat.ID, "Laptop", "portable computer", 1200, 5)
	tablet := mustCreateProduct(t, r, cat.ID, "Tablet", "touch screen device", 600, 5)
	phone := mustCreateProduct(t, r, cat.ID, "Phone", "smartphone", 900, 5)

	// Vector path surfaces tablet and phone; keyword path finds only laptop.
	// Laptop also appears in the vector list and must not duplicate.
	vectors := &fakeVectorStore{ids: []uint{tablet.ID, laptop.ID, phone.ID}}
	search := NewSearchService(db, log, NewTokenizer(), r.product, r.history, &fakeEmbedder{}, vectors)

	products, err := search.Search(context.Background(), SearchParams{
		Query:               "laptop",
		UseVector:           true,
		SimilarityThreshold: 0.3,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	wantOrder := []uint{laptop.ID, tablet.ID, phone.ID}
	if len(products) != len(wantOrder) {
		t.Fatalf("results: want=%d got=%d", len(wantOrder), len(products))
	}
	for i, want := range wantOrder {
		if products[i].ID != want {
			t.Fatalf("order[%d]: want=%d got=%d", i, want, products[i].ID)
		}
	}
}

func TestSearchVectorPathAppliesStockPolicy(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	r := newTestRepos(t, db, log)
	cat := mustCreateCategory(t, r, "Electronics")
	inStock := mustCreateProduct(t, r, cat.ID, "Tablet", "", 600, 5)
	outOfStock := mustCreateProduct(t, r, cat.ID, "Phone", "", 900, 0)

	vectors := &fakeVectorStore{ids: []uint{outOfStock.ID, inStock.ID}}
	search := NewSearchService(db, log, NewTokenizer(), r.product, r.history, &fakeEmbedder{}, vectors)

	products, err := search.Search(context.Background(), SearchParams{
		Query:               "device",
		UseVector:           true,
		SimilarityThreshold: 0.3,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(products) != 1 || products[0].ID != inStock.ID {
		t.Fatalf("stock policy mismatch: got=%v", products)
	}
}

func TestSearchDegradesToKeywordOnVectorFailure(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	r := newTestRepos(t, db, log)
	cat := mustCreateCategory(t, r, "Electronics")
	mustCreateProduct(t, r, cat.ID, "Laptop", "", 1200, 5)

	vectors := &fakeVectorStore{queryErr: errors.New("qdrant down")}
	search := NewSearchService(db, log, NewTokenizer(), r.product, r.history, &fakeEmbedder{}, vectors)

	products, err := search.Search(context.Background(), SearchParams{
		Query:               "laptop",
		UseVector:           true,
		SimilarityThreshold: 0.3,
	})
	if err != nil {
		t.Fatalf("Search should degrade, not fail: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("keyword results lost in degradation: got=%d", len(products))
	}
}

func TestSearchRecordsHistoryForKnownUser(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	r := newTestRepos(t, db, log)
	user := mustCreateUser(t, r, "a@example.com", "traveler")

	search := NewSearchService(db, log, NewTokenizer(), r.product, r.history, &fakeEmbedder{}, &fakeVectorStore{})

	if _, err := search.Search(context.Background(), SearchParams{UserID: &user.ID, Query: "laptop"}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	// History is written off the request path; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		queries, err := r.history.ListQueriesByUser(context.Background(), nil, user.ID)
		if err != nil {
			t.Fatalf("list history: %v", err)
		}
		if len(queries) == 1 && queries[0] == "laptop" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("history not recorded, got=%v", queries)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
