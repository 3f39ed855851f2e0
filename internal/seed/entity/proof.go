package entity

// CommitProof is a commit hash and the owner signature over its ASCII bytes.
type CommitProof struct {
	CommitHash string
	Signature  []byte
}

// SeedRequest is what the issuer needs to encrypt a seed for this owner.
type SeedRequest struct {
	AccountID     string
	RepositoryURL string
	PublicKey     string
}

// Submission is the final payload sent to the issuer for grading.
type Submission struct {
	AccountID          string
	RepositoryURL      string
	CommitHash         string
	EncryptedSignature string
	EncryptedSeed      string
	PublicKey          string
}

// SubmissionReceipt is the issuer's answer to a Submission.
type SubmissionReceipt struct {
	StatusCode int
	Body       string
}
