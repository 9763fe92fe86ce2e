package dto

// Response 统一返回封装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageDTO 分页参数
type PageDTO struct {
	Limit  int `form:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" json:"offset" validate:"omitempty,min=0"`
}
