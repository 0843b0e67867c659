package dto

// VerifyUsersRequest lists auth uids to check against Firebase. The service
// batches lookups at 100 uids per backend call.
type VerifyUsersRequest struct {
	UIDs []string `json:"uids" validate:"required,min=1,max=1000,dive,required"`
}

// VerifyUsersResponse lists the uids that no longer exist in Firebase Auth.
type VerifyUsersResponse struct {
	DeletedUIDs []string `json:"deletedUids"`
}
