package request

// DeleteProductRequest is the body accepted by DELETE /api/admin/products.
type DeleteProductRequest struct {
	ID string `json:"id"`
}

// ReorderProductsRequest is the body accepted by POST /api/admin/products/order.
// A missing ids field decodes to nil.
type ReorderProductsRequest struct {
	IDs []string `json:"ids"`
}
