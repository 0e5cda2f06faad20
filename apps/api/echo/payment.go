package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type paymentApi struct {
	svc      course.Service
	validate *validator.Validate
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc course.Service, validate *validator.Validate) {
	api := paymentApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/payments", jwt)
	pg.POST("/purchase", api.purchase)
	pg.GET("/history", api.history)
}

// Handlers

func (api *paymentApi) purchase(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data course.Purchase
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Purchase")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	receipt, err := api.svc.Purchase(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "purchasing course")
	}
	return ctx.JSON(http.StatusOK, newPurchaseResponse(receipt))
}

func (api *paymentApi) history(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	payments, err := api.svc.History(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	return ctx.JSON(http.StatusOK, payments)
}

type (
	PurchaseResponse struct {
		Message string              `json:"message"`
		Course  PurchasedCourse     `json:"course"`
		Payment PaymentConfirmation `json:"payment"`
	}

	PurchasedCourse struct {
		ID    string  `json:"id"`
		Title string  `json:"title"`
		Price float64 `json:"price"`
	}

	PaymentConfirmation struct {
		TransactionID string    `json:"transactionId"`
		Amount        float64   `json:"amount"`
		Status        string    `json:"status"`
		Timestamp     time.Time `json:"timestamp"`
	}
)

func newPurchaseResponse(r course.Receipt) PurchaseResponse {
	return PurchaseResponse{
		Message: "Course purchased successfully",
		Course: PurchasedCourse{
			ID:    r.Course.ID,
			Title: r.Course.Title,
			Price: r.Course.Price,
		},
		Payment: PaymentConfirmation{
			TransactionID: r.Payment.TransactionID,
			Amount:        r.Payment.Amount,
			Status:        r.Payment.Status,
			Timestamp:     r.Payment.Timestamp,
		},
	}
}
