package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
	FileTypeGIF FileType = "gif"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
	FileTypeGIF: "image/gif",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/gif":       FileTypeGIF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"gif":  FileTypeGIF,
}

// UserRole defines what a back-office account may do.
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleManager     UserRole = "manager"
	RoleUnderwriter UserRole = "underwriter"
	RoleSales       UserRole = "sales"
)

// ValidUserRoles is the set of assignable roles.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:       true,
	RoleManager:     true,
	RoleUnderwriter: true,
	RoleSales:       true,
}

// RoleLabels are the display names used by the dashboards.
var RoleLabels = map[UserRole]string{
	RoleAdmin:       "Administrator",
	RoleManager:     "Manager",
	RoleUnderwriter: "Underwriter",
	RoleSales:       "Sales Personnel",
}

// ParseUserRole accepts either a role value or its display label.
func ParseUserRole(s string) (UserRole, bool) {
	r := UserRole(s)
	if ValidUserRoles[r] {
		return r, true
	}
	for role, label := range RoleLabels {
		if label == s {
			return role, true
		}
	}
	return "", false
}

// DocumentType names one of the proof-of-document fields of a client.
type DocumentType string

const (
	DocCoverageProof             DocumentType = "coverage_proof"
	DocSumInsuredProof           DocumentType = "sum_insured_proof"
	DocPolicyFeeInvoice          DocumentType = "policy_fee_invoice"
	DocVATDebitNote              DocumentType = "vat_debit_note"
	DocPaymentReceipt            DocumentType = "payment_receipt"
	DocNICProof                  DocumentType = "nic_proof"
	DocDOBProof                  DocumentType = "dob_proof"
	DocBusinessRegistrationProof DocumentType = "business_registration_proof"
	DocSVATProof                 DocumentType = "svat_proof"
	DocVATProof                  DocumentType = "vat_proof"

	// DocBusinessRegistration is the legacy column still populated by older records.
	DocBusinessRegistration DocumentType = "business_registration"
)

// Document category headings.
const (
	CategoryPolicy   = "Policy Documents"
	CategoryIdentity = "Identity Documents"
	CategoryBusiness = "Business Documents"
)

// DocumentSpec describes how a document type is presented.
type DocumentSpec struct {
	Type     DocumentType
	Label    string
	Category string
}

// DocumentSpecs lists the document slots in display order.
var DocumentSpecs = []DocumentSpec{
	{DocCoverageProof, "Coverage Proof", CategoryPolicy},
	{DocSumInsuredProof, "Sum Insured Proof", CategoryPolicy},
	{DocPolicyFeeInvoice, "Policy Fee Invoice", CategoryPolicy},
	{DocVATDebitNote, "VAT Debit Note", CategoryPolicy},
	{DocPaymentReceipt, "Payment Receipt", CategoryPolicy},
	{DocNICProof, "NIC Proof", CategoryIdentity},
	{DocDOBProof, "DOB Proof", CategoryIdentity},
	{DocBusinessRegistrationProof, "Business Registration", CategoryBusiness},
	{DocSVATProof, "SVAT Proof", CategoryBusiness},
	{DocVATProof, "VAT Proof", CategoryBusiness},
}

// DocumentCategories lists category headings in display order.
var DocumentCategories = []string{CategoryPolicy, CategoryIdentity, CategoryBusiness}

// ValidDocumentType reports whether t names an uploadable document slot.
func ValidDocumentType(t DocumentType) bool {
	for _, s := range DocumentSpecs {
		if s.Type == t {
			return true
		}
	}
	return t == DocBusinessRegistration
}
