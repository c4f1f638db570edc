//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// findProduct locates a seeded product by SKU through the public API.
func findProduct(t *testing.T, sku string) productResponse {
	t.Helper()

	resp := doGet(t, "/api/products")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list products: expected 200, got %d", resp.StatusCode)
	}

	for _, p := range decodeJSON[[]productResponse](t, resp) {
		if p.SKU == sku {
			return p
		}
	}
	t.Fatalf("seeded product %s not found", sku)
	return productResponse{}
}

func TestCart_FirstGetIssuesCredential(t *testing.T) {
	resp := doGet(t, "/api/cart")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	if cart.Token == "" {
		t.Fatal("expected a credential token")
	}
	if cart.Subtotal != "0" || cart.Total != "0" {
		t.Errorf("fresh cart totals: subtotal=%s total=%s, want 0/0", cart.Subtotal, cart.Total)
	}
	if cart.Added != nil {
		t.Error("GET must not serialize mutation flags")
	}
}

func TestCart_GarbageCredentialHeals(t *testing.T) {
	resp := doGet(t, "/api/cart?token=definitely-not-a-token")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	if cart.Token == "" || cart.Token == "definitely-not-a-token" {
		t.Fatalf("expected a fresh credential, got %q", cart.Token)
	}
}

func TestCart_FullProtocol(t *testing.T) {
	rice := findProduct(t, "GROC-RICE-5KG") // seeded at 850.00

	// Add 2 units to a fresh cart.
	resp := doJSON(t, http.MethodPost, "/api/cart", map[string]any{
		"product_id": rice.ID,
		"quantity":   2,
	})
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if cart.Token == "" {
		t.Fatal("expected credential on add")
	}
	if cart.Added == nil || !*cart.Added {
		t.Error("expected added=true for a new line")
	}
	if cart.Subtotal != "1700" {
		t.Errorf("subtotal: got %s, want 1700", cart.Subtotal)
	}
	if cart.TaxTotal != "127.5" {
		t.Errorf("tax_total: got %s, want 127.5", cart.TaxTotal)
	}
	if cart.Total != "1827.5" {
		t.Errorf("total: got %s, want 1827.5", cart.Total)
	}
	token := cart.Token

	// Add again: additive on the same line, same cart.
	resp = doJSON(t, http.MethodPost, "/api/cart?token="+token, map[string]any{
		"product_id": rice.ID,
		"quantity":   1,
	})
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if cart.Token != token {
		t.Error("resolved cart must echo the same credential")
	}
	if cart.ItemCount != 3 {
		t.Errorf("item_count: got %d, want 3", cart.ItemCount)
	}
	if cart.Updated == nil || !*cart.Updated {
		t.Error("expected updated=true for an incremented line")
	}

	// Set the line to an absolute quantity.
	resp = doJSON(t, http.MethodPut, "/api/cart", map[string]any{
		"token":      token,
		"product_id": rice.ID,
		"quantity":   1,
	})
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if cart.Subtotal != "850" {
		t.Errorf("subtotal after update: got %s, want 850", cart.Subtotal)
	}

	// Remove the line.
	resp = doJSON(t, http.MethodDelete, "/api/cart", map[string]any{
		"token":      token,
		"product_id": rice.ID,
	})
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if cart.Removed == nil || !*cart.Removed {
		t.Error("expected removed=true")
	}
	if cart.ItemCount != 0 || cart.Subtotal != "0" {
		t.Errorf("emptied cart: item_count=%d subtotal=%s", cart.ItemCount, cart.Subtotal)
	}

	// The credential still resolves to the same, now empty, cart.
	resp = doGet(t, "/api/cart?token="+token)
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if cart.Token != token {
		t.Error("credential no longer resolves after remove")
	}
}

func TestCart_UnknownProduct(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/cart", map[string]any{
		"product_id": 99999999,
		"quantity":   1,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Message != "product not found" {
		t.Errorf("message: got %q", errResp.Message)
	}
}

func TestCart_RemoveMissingLine(t *testing.T) {
	rice := findProduct(t, "GROC-RICE-5KG")

	resp := doJSON(t, http.MethodDelete, "/api/cart", map[string]any{
		"product_id": rice.ID,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
