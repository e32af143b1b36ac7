package validator

import (
	"stockbrief/model"

	"github.com/Oudwins/zog"
)

var TickerShape = zog.Shape{
	"Ticker": zog.String().Min(1).Max(12).Required(),
}

var UpdateStockShape = zog.Shape{
	"Name":        zog.String().Max(160),
	"ChineseName": zog.String().Max(160),
	"Exchange":    zog.String().Max(40),
}

// AnyIdentityFieldTest rejects PATCH bodies that would be a no-op.
func AnyIdentityFieldTest(dataPtr any, ctx zog.Ctx) bool {
	req, ok := dataPtr.(*model.UpdateStockRequest)
	if !ok {
		return true
	}

	if req.Name == "" && req.ChineseName == "" && req.Exchange == "" {
		ctx.AddIssue(&zog.ZogIssue{
			Path:    []string{"body"},
			Message: "At least one of name, chineseName or exchange is required",
		})
		return false
	}
	return true
}
