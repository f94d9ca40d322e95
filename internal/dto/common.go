package dto

// ListParams defines offset pagination query parameters shared by administrative listings.
type ListParams struct {
	Limit      int    `form:"limit,default=20" binding:"min=1,max=200"`
	Offset     int    `form:"offset,default=0" binding:"min=0"`
	BranchCode string `form:"branchCode" binding:"omitempty,branchcode"`
	Search     string `form:"q"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}
