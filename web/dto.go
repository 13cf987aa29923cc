package web

import "restaurant-sync/models"

type addFoodItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type idRequest struct {
	ID int64 `json:"id"`
}

type submitOrderRequest struct {
	TableNumber string           `json:"tableNumber"`
	Items       models.LineItems `json:"items"`
	TotalPrice  float64          `json:"totalPrice"`
	Email       string           `json:"email,omitempty"`
}

type updateStatusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type sendBillRequest struct {
	Email        string `json:"email"`
	OrderDetails string `json:"orderDetails"`
}

type okResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
