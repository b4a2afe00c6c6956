package models

import (
	"time"
)

// Prospect represents a company targeted by cold outreach.
// Identity is the normalized website URL; a URL is never duplicated.
type Prospect struct {
	ID                  string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CompanyName         string    `gorm:"type:varchar(255)" json:"company_name"`
	WebsiteURL          string    `gorm:"type:varchar(500);uniqueIndex;not null" json:"website_url"`
	PrimaryEmail        string    `gorm:"type:varchar(255)" json:"primary_email"`
	EmailSender         string    `gorm:"type:varchar(255)" json:"email_sender"`
	EmailSentStatus     bool      `gorm:"default:false" json:"email_sent_status"`
	RecommendedServices string    `gorm:"type:varchar(1000)" json:"recommended_services"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Prospect) TableName() string {
	return "prospects"
}

// EmailLog is the append-only send ledger. It is the sole input to
// rate-limit computation and is never updated or deleted.
type EmailLog struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProspectID  string    `gorm:"type:varchar(36);index" json:"prospect_id"`
	SenderEmail string    `gorm:"type:varchar(255);index:idx_email_logs_sender_sent_at" json:"sender_email"`
	SentAt      time.Time `gorm:"not null;index:idx_email_logs_sender_sent_at" json:"sent_at"`
	Subject     string    `gorm:"type:varchar(500)" json:"subject"`
	Content     string    `gorm:"type:text" json:"content"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}

// User represents a CRM account (Admin, Employee, Intern or Client).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255)" json:"-"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Role      string    `gorm:"type:varchar(50);default:'Client'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ClientProfile holds the CRM-side record for a client account.
// One profile per user; created lazily when a campaign first resolves
// an email address to an account.
type ClientProfile struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	UserID              uint   `gorm:"uniqueIndex" json:"user_id"`
	ProjectID           uint   `json:"project_id"`
	CompanyName         string `gorm:"type:varchar(255)" json:"company_name"`
	Phone               string `gorm:"type:varchar(50)" json:"phone"`
	Address             string `gorm:"type:varchar(500)" json:"address"`
	Status              string `gorm:"type:varchar(50);default:'Active'" json:"status"`
	AssignedEmployeeID  uint   `json:"assigned_employee_id"`
	ProjectName         string `gorm:"type:varchar(255)" json:"project_name"`
	GMBName             string `gorm:"type:varchar(255)" json:"gmb_name"`
	SEOStrategy         string `gorm:"type:varchar(500)" json:"seo_strategy"`
	Tagline             string `gorm:"type:varchar(500)" json:"tagline"`
	TargetKeywords      string `gorm:"type:text" json:"target_keywords"` // JSON array string
	WebsiteURL          string `gorm:"type:varchar(500)" json:"website_url"`
	RecommendedServices string `gorm:"type:varchar(1000)" json:"recommended_services"`
	ServicesOffered     string `gorm:"type:text" json:"services_offered"`
	ServicesRequested   string `gorm:"type:text" json:"services_requested"`
	OutboundEmailSent   bool   `gorm:"default:false" json:"outbound_email_sent"`
	InboundEmailSent    bool   `gorm:"default:false" json:"inbound_email_sent"`
	NextMilestone       string `gorm:"type:varchar(255)" json:"next_milestone"`
	NextMilestoneDate   string `gorm:"type:varchar(255)" json:"next_milestone_date"`
	LastActivity        string `gorm:"type:varchar(500)" json:"last_activity"`
	LastActivityDate    string `gorm:"type:varchar(255)" json:"last_activity_date"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ClientProfile) TableName() string {
	return "client_profiles"
}

// SentEmail stores the durable bilingual copy of every outreach email.
// Distinct from EmailLog: the ledger drives rate-limit math, this is the
// text of record.
type SentEmail struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClientID    uint      `gorm:"index" json:"client_id"`
	ToEmail     string    `gorm:"type:varchar(255)" json:"to_email"`
	Subject     string    `gorm:"type:varchar(500)" json:"subject"`
	EnglishBody string    `gorm:"type:text" json:"english_body"`
	SpanishBody string    `gorm:"type:text" json:"spanish_body"`
	SentAt      time.Time `gorm:"autoCreateTime" json:"sent_at"`
}

func (SentEmail) TableName() string {
	return "sent_emails"
}

// ActivityLog is the immutable audit trail of what the system did and why.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `json:"user_id"`
	ClientID  uint      `gorm:"index" json:"client_id"`
	Action    string    `gorm:"type:varchar(255)" json:"action"`
	Method    string    `gorm:"type:varchar(50)" json:"method"`
	Content   string    `gorm:"type:text" json:"content"`
	Details   string    `gorm:"type:varchar(500)" json:"details"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Project groups clients and team members around a deliverable.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:varchar(50);default:'Planning'" json:"status"`
	Progress    int       `gorm:"default:0" json:"progress"`
	EmployeeIDs string    `gorm:"type:text" json:"employee_ids"` // JSON array string
	InternIDs   string    `gorm:"type:text" json:"intern_ids"`   // JSON array string
	ClientIDs   string    `gorm:"type:text" json:"client_ids"`   // JSON array string
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// Remark is an internal or client-facing comment.
type Remark struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text" json:"content"`
	AuthorID   uint      `json:"author_id"`
	ClientID   uint      `gorm:"index" json:"client_id"`
	ProjectID  uint      `gorm:"index" json:"project_id"`
	IsInternal bool      `gorm:"default:true" json:"is_internal"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Remark) TableName() string {
	return "remarks"
}

// CallLog records incoming/outgoing calls with optional summary and follow-up.
type CallLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber     string    `gorm:"type:varchar(50)" json:"phone_number"`
	ReceivedAt      time.Time `gorm:"autoCreateTime" json:"received_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Summary         string    `gorm:"type:text" json:"summary"`
	Description     string    `gorm:"type:text" json:"description"`
	WorkDone        string    `gorm:"type:text" json:"work_done"`
	AssignedTo      string    `gorm:"type:varchar(255)" json:"assigned_to"`
	FollowupNeeded  bool      `gorm:"default:false" json:"followup_needed"`
	FollowupDate    string    `gorm:"type:varchar(50)" json:"followup_date"`
	ClientID        uint      `gorm:"index" json:"client_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CallLog) TableName() string {
	return "call_logs"
}

// ClientStatus is a configurable status option for client profiles.
type ClientStatus struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex" json:"name"`
	Color     string    `gorm:"type:varchar(50);default:'bg-gray-500'" json:"color"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ClientStatus) TableName() string {
	return "client_statuses"
}
