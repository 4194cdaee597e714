package deduction

import "github.com/shopspring/decimal"

type CreateDeductionRequest struct {
	Code string           `json:"code" binding:"omitempty,max=32"`
	Name string           `json:"name" binding:"required,max=100"`
	Rate *decimal.Decimal `json:"rate" binding:"required"`
}

type UpdateDeductionRequest struct {
	Name string           `json:"name" binding:"required,max=100"`
	Rate *decimal.Decimal `json:"rate" binding:"required"`
}

type DeductionResponse struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}
