package api

import "github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"

// Money is kept as decimal internally and rendered as a JSON number.

type productView struct {
	entity.Product
	Price float64 `json:"price"`
}

func newProductViews(products []entity.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{Product: p, Price: p.Price.InexactFloat64()})
	}
	return views
}

type orderView struct {
	entity.Order
	TotalPrice float64 `json:"total_price"`
}

func newOrderViews(orders []entity.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView{Order: o, TotalPrice: o.TotalPrice.InexactFloat64()})
	}
	return views
}

type userSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type createdResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}
