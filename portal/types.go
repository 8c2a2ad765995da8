// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portal

// Role identifies what kind of account an identity is. The three
// values are closed: capability checks switch over them exhaustively
// and treat anything else as an unauthenticated session.
type Role string

const (
	// RolePatient is a self-service account that can upload images.
	RolePatient Role = "patient"
	// RoleDoctor is a clinician account. Doctors carry an approval
	// status and cannot log in until an admin approves them.
	RoleDoctor Role = "doctor"
	// RoleAdmin can review the user roster and approve doctors.
	RoleAdmin Role = "admin"
)

// Known reports whether the role is one of the three defined values.
// Unknown roles come from a newer server; callers must treat them as
// having no capabilities rather than failing.
func (r Role) Known() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// ApprovalStatus is the review state of a doctor account.
type ApprovalStatus string

const (
	// ApprovalPending means the account awaits admin review and
	// cannot authenticate.
	ApprovalPending ApprovalStatus = "pending"
	// ApprovalApproved is terminal: the doctor can log in.
	ApprovalApproved ApprovalStatus = "approved"
	// ApprovalRejected is terminal: the account stays locked out.
	ApprovalRejected ApprovalStatus = "rejected"
)

// Terminal reports whether the status is a final review outcome.
func (s ApprovalStatus) Terminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// UserID is the server-assigned account identifier. The backend issues
// numeric IDs; the client treats them as opaque.
type UserID int64

// Identity is the authenticated principal as the server reports it.
// ApprovalStatus is populated only for doctor accounts.
type Identity struct {
	ID             UserID         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Role           Role           `json:"role"`
	ApprovalStatus ApprovalStatus `json:"approval_status,omitempty"`
}

// AuthResponse is the success shape of login and patient registration.
type AuthResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// PendingDoctor is one entry in the admin's pending-approval roster: a
// projection of Identity restricted to doctors awaiting review.
// DegreePath is empty when the doctor registered without a certificate
// on file (legacy accounts).
type PendingDoctor struct {
	ID             UserID         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	DegreePath     string         `json:"degree_path,omitempty"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
}

// Dermatoscopic feature codes used by the analysis model. The wire
// values are the model's abbreviations, not display strings.
const (
	// FeatureTypical marks a structure as typical ("T").
	FeatureTypical = "T"
	// FeatureAtypical marks a structure as atypical ("AT").
	FeatureAtypical = "AT"
	// FeaturePresent marks a structure as present ("P").
	FeaturePresent = "P"
	// FeatureAbsent marks a structure as absent ("A").
	FeatureAbsent = "A"
)

// FeatureSet holds the structural descriptors extracted from an
// uploaded image. Every field is independent; the JSON keys are the
// model's own capitalized names and must not be renamed. Asymmetry is
// 0 (symmetric), 1 (one axis), or 2 (both axes). The six booleans
// flag which colors the lesion shows.
type FeatureSet struct {
	Asymmetry       int    `json:"Asymmetry"`
	PigmentNetwork  string `json:"Pigment_Network"`
	DotsGlobules    string `json:"Dots_Globules"`
	Streaks         string `json:"Streaks"`
	RegressionAreas string `json:"Regression_Areas"`
	BlueWhitishVeil string `json:"Blue_Whitish_Veil"`

	White      bool `json:"White"`
	Red        bool `json:"Red"`
	LightBrown bool `json:"Light_Brown"`
	DarkBrown  bool `json:"Dark_Brown"`
	BlueGray   bool `json:"Blue_Gray"`
	Black      bool `json:"Black"`
}

// ConfidenceLevel is the server-derived summary of the top
// classification entry.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ClassificationEntry is one ranked diagnosis. Rank 1 is the model's
// top prediction; entries arrive ordered by ascending rank and are
// rendered in that order without re-sorting.
type ClassificationEntry struct {
	Rank              int     `json:"rank"`
	ClassName         string  `json:"class_name"`
	ClassCode         string  `json:"class_code"`
	ConfidencePercent float64 `json:"confidence_percent"`
}

// GradCAM is the visual-explanation artifact accompanying a
// classification: the original image and a heatmap overlay, both
// base64-encoded PNG. Either both images are present or the block is
// absent; it is rendered only when its own Success flag is true.
type GradCAM struct {
	Success       bool   `json:"success"`
	OriginalImage string `json:"original_image"`
	GradCAMImage  string `json:"gradcam_image"`
}

// Classification is the ranked diagnostic output. Entries is non-empty
// whenever Success is true. Recommendation and Disclaimer are advisory
// text shown together with any result.
type Classification struct {
	Success         bool                  `json:"success"`
	Entries         []ClassificationEntry `json:"classification"`
	ConfidenceLevel ConfidenceLevel       `json:"confidence_level"`
	Recommendation  string                `json:"recommendation"`
	Disclaimer      string                `json:"disclaimer"`
	GradCAM         *GradCAM              `json:"gradcam,omitempty"`
}

// AnalysisResult is the success shape of an image upload. Features and
// Classification are independently optional: the server may return
// either, both, or neither, and absence of one never invalidates the
// other.
type AnalysisResult struct {
	Message        string          `json:"message,omitempty"`
	Features       *FeatureSet     `json:"features,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
}

// ImageRecord is one entry in a user's upload history.
type ImageRecord struct {
	ID         string          `json:"id"`
	FileName   string          `json:"file_name"`
	UploadedAt string          `json:"uploaded_at"`
	Features   *FeatureSet     `json:"features,omitempty"`
	Result     *Classification `json:"classification,omitempty"`
}
