package model

type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdministrator
}

type BriefStatus string

// open is the only status current flows produce; the field exists for
// future lifecycle states.
const BriefStatusOpen BriefStatus = "open"

type BriefTemplate string

const (
	TemplateWebsite     BriefTemplate = "website"
	TemplateBot         BriefTemplate = "bot"
	TemplateDesign      BriefTemplate = "design"
	TemplateCopywriting BriefTemplate = "copywriting"
	TemplateOther       BriefTemplate = "other"
)

func (t BriefTemplate) Valid() bool {
	switch t {
	case TemplateWebsite, TemplateBot, TemplateDesign, TemplateCopywriting, TemplateOther:
		return true
	}
	return false
}

type OfferStatus string

const (
	OfferStatusNew       OfferStatus = "new"
	OfferStatusShortlist OfferStatus = "shortlist"
	OfferStatusRejected  OfferStatus = "rejected"
)

func (s OfferStatus) Valid() bool {
	switch s {
	case OfferStatusNew, OfferStatusShortlist, OfferStatusRejected:
		return true
	}
	return false
}
