// Package pb holds the storefront.v1 gRPC messages and service definition.
// Messages travel as JSON, see CodecName.
package pb

type AddToCartRequest struct {
	ProductId int64 `json:"product_id,omitempty"`
	Quantity  int32 `json:"quantity,omitempty"`
}

func (x *AddToCartRequest) GetProductId() int64 {
	if x != nil {
		return x.ProductId
	}
	return 0
}

func (x *AddToCartRequest) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

type UpdateCartRequest struct {
	CartId   int64 `json:"cart_id,omitempty"`
	Quantity int32 `json:"quantity,omitempty"`
}

func (x *UpdateCartRequest) GetCartId() int64 {
	if x != nil {
		return x.CartId
	}
	return 0
}

func (x *UpdateCartRequest) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

type RemoveFromCartRequest struct {
	CartId int64 `json:"cart_id,omitempty"`
}

func (x *RemoveFromCartRequest) GetCartId() int64 {
	if x != nil {
		return x.CartId
	}
	return 0
}

type CartResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (x *CartResponse) GetSuccess() bool {
	if x != nil {
		return x.Success
	}
	return false
}

func (x *CartResponse) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

type GetCartRequest struct{}

type CartItem struct {
	CartId       int64  `json:"cart_id,omitempty"`
	ProductId    int64  `json:"product_id,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	Price        string `json:"price,omitempty"`
	Quantity     int32  `json:"quantity,omitempty"`
	LineTotal    string `json:"line_total,omitempty"`
	ExceedsStock bool   `json:"exceeds_stock,omitempty"`
}

func (x *CartItem) GetCartId() int64 {
	if x != nil {
		return x.CartId
	}
	return 0
}

func (x *CartItem) GetProductId() int64 {
	if x != nil {
		return x.ProductId
	}
	return 0
}

func (x *CartItem) GetProductName() string {
	if x != nil {
		return x.ProductName
	}
	return ""
}

func (x *CartItem) GetPrice() string {
	if x != nil {
		return x.Price
	}
	return ""
}

func (x *CartItem) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

func (x *CartItem) GetLineTotal() string {
	if x != nil {
		return x.LineTotal
	}
	return ""
}

func (x *CartItem) GetExceedsStock() bool {
	if x != nil {
		return x.ExceedsStock
	}
	return false
}

type GetCartResponse struct {
	Items    []*CartItem `json:"items,omitempty"`
	Count    int32       `json:"count,omitempty"`
	Subtotal string      `json:"subtotal,omitempty"`
	Shipping string      `json:"shipping,omitempty"`
	Tax      string      `json:"tax,omitempty"`
	Total    string      `json:"total,omitempty"`
}

func (x *GetCartResponse) GetItems() []*CartItem {
	if x != nil {
		return x.Items
	}
	return nil
}

func (x *GetCartResponse) GetCount() int32 {
	if x != nil {
		return x.Count
	}
	return 0
}

func (x *GetCartResponse) GetSubtotal() string {
	if x != nil {
		return x.Subtotal
	}
	return ""
}

func (x *GetCartResponse) GetShipping() string {
	if x != nil {
		return x.Shipping
	}
	return ""
}

func (x *GetCartResponse) GetTax() string {
	if x != nil {
		return x.Tax
	}
	return ""
}

func (x *GetCartResponse) GetTotal() string {
	if x != nil {
		return x.Total
	}
	return ""
}

type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	ZipCode         string `json:"zip_code,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	IdempotencyKey  string `json:"idempotency_key,omitempty"`
}

func (x *PlaceOrderRequest) GetShippingAddress() string {
	if x != nil {
		return x.ShippingAddress
	}
	return ""
}

func (x *PlaceOrderRequest) GetCity() string {
	if x != nil {
		return x.City
	}
	return ""
}

func (x *PlaceOrderRequest) GetState() string {
	if x != nil {
		return x.State
	}
	return ""
}

func (x *PlaceOrderRequest) GetZipCode() string {
	if x != nil {
		return x.ZipCode
	}
	return ""
}

func (x *PlaceOrderRequest) GetPaymentMethod() string {
	if x != nil {
		return x.PaymentMethod
	}
	return ""
}

func (x *PlaceOrderRequest) GetIdempotencyKey() string {
	if x != nil {
		return x.IdempotencyKey
	}
	return ""
}

type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderId int64  `json:"order_id,omitempty"`
}

func (x *PlaceOrderResponse) GetSuccess() bool {
	if x != nil {
		return x.Success
	}
	return false
}

func (x *PlaceOrderResponse) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

func (x *PlaceOrderResponse) GetOrderId() int64 {
	if x != nil {
		return x.OrderId
	}
	return 0
}

type GetOrderRequest struct {
	OrderId int64 `json:"order_id,omitempty"`
}

func (x *GetOrderRequest) GetOrderId() int64 {
	if x != nil {
		return x.OrderId
	}
	return 0
}

type OrderItem struct {
	ProductId       int64  `json:"product_id,omitempty"`
	ProductName     string `json:"product_name,omitempty"`
	Quantity        int32  `json:"quantity,omitempty"`
	PriceAtPurchase string `json:"price_at_purchase,omitempty"`
}

func (x *OrderItem) GetProductId() int64 {
	if x != nil {
		return x.ProductId
	}
	return 0
}

func (x *OrderItem) GetProductName() string {
	if x != nil {
		return x.ProductName
	}
	return ""
}

func (x *OrderItem) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

func (x *OrderItem) GetPriceAtPurchase() string {
	if x != nil {
		return x.PriceAtPurchase
	}
	return ""
}

type Order struct {
	OrderId         int64        `json:"order_id,omitempty"`
	TotalAmount     string       `json:"total_amount,omitempty"`
	ShippingAddress string       `json:"shipping_address,omitempty"`
	PaymentMethod   string       `json:"payment_method,omitempty"`
	Status          string       `json:"status,omitempty"`
	CreatedAt       string       `json:"created_at,omitempty"`
	Items           []*OrderItem `json:"items,omitempty"`
}

func (x *Order) GetOrderId() int64 {
	if x != nil {
		return x.OrderId
	}
	return 0
}

func (x *Order) GetTotalAmount() string {
	if x != nil {
		return x.TotalAmount
	}
	return ""
}

func (x *Order) GetShippingAddress() string {
	if x != nil {
		return x.ShippingAddress
	}
	return ""
}

func (x *Order) GetPaymentMethod() string {
	if x != nil {
		return x.PaymentMethod
	}
	return ""
}

func (x *Order) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

func (x *Order) GetCreatedAt() string {
	if x != nil {
		return x.CreatedAt
	}
	return ""
}

func (x *Order) GetItems() []*OrderItem {
	if x != nil {
		return x.Items
	}
	return nil
}
