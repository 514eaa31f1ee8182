package request

import "oip/dprate/internal/business/shipping"

// CalculateRequest 运费计算请求
// 必填校验由业务层完成，以便返回 MissingField 分类；weight 接受数字或数字字符串
type CalculateRequest struct {
	Country      string      `json:"country" binding:"max=128" example:"United States"`
	ShippingLine string      `json:"shipping_line" binding:"max=128" example:"ground-advantage"`
	Zone         string      `json:"zone" binding:"max=128" example:"Zone 1"`
	Weight       interface{} `json:"weight" swaggertype:"number" example:"2.5"`
	WeightUnit   string      `json:"weight_unit" binding:"max=16" example:"kg"`
}

// ToDomain 转为业务请求
func (r *CalculateRequest) ToDomain() (*shipping.CalculateRequest, error) {
	weight, missing, err := shipping.ParseWeightInput(r.Weight)
	if err != nil {
		return nil, err
	}
	return &shipping.CalculateRequest{
		Country:       r.Country,
		ShippingLine:  r.ShippingLine,
		Zone:          r.Zone,
		Weight:        weight,
		WeightUnit:    shipping.WeightUnit(r.WeightUnit),
		WeightMissing: missing,
	}, nil
}
