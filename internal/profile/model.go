package profile

// Record represents one LinkedIn profile row
type Record struct {
	ProfileID     int64  `db:"profile_id" json:"profile_id"`
	ProfileURL    string `db:"profile_url" json:"profile_url"`
	ProfilePicURL string `db:"profile_pic_url" json:"profile_pic_url"`
	FullName      string `db:"full_name" json:"full_name"`
	Headline      string `db:"headline" json:"headline"`
	Summary       string `db:"summary" json:"summary"`
	Country       string `db:"country" json:"country"`
	City          string `db:"city" json:"city"`
	Email         string `db:"email" json:"email"`
	ContactNumber string `db:"contact_number" json:"contact_number"`
	GitHub        string `db:"github" json:"github"`
	Twitter       string `db:"twitter" json:"twitter"`
	Facebook      string `db:"facebook" json:"facebook"`
	Skills        string `db:"skills" json:"skills"`
	Connections   int    `db:"connections" json:"connections"`
	Languages     string `db:"languages" json:"languages"`
	FollowerCount int    `db:"follower_count" json:"follower_count"`
	Industry      string `db:"industry" json:"industry"`
	Fortune500    bool   `db:"fortune_500" json:"fortune_500"`
	Entrepreneur  bool   `db:"entrepreneur" json:"entrepreneur"`
	Leadership    bool   `db:"leadership_role" json:"leadership_role"`
}

// Education represents one education history row
type Education struct {
	ProfileID       int64  `db:"profile_id" json:"profile_id"`
	InstitutionName string `db:"institution_name" json:"institution_name"`
	Degree          string `db:"degree" json:"degree"`
	FieldOfStudy    string `db:"field_of_study" json:"field_of_study"`
	StartDate       string `db:"start_date" json:"start_date"`
	EndDate         string `db:"end_date" json:"end_date"`
}

// Experience represents one work experience row
type Experience struct {
	ProfileID   int64  `db:"profile_id" json:"profile_id"`
	Title       string `db:"title" json:"title"`
	Company     string `db:"company" json:"company"`
	Location    string `db:"location" json:"location"`
	Description string `db:"description" json:"description"`
	StartDate   string `db:"start_date" json:"start_date"`
	EndDate     string `db:"end_date" json:"end_date"`
}

// ClubExperience represents one club/extracurricular row
type ClubExperience struct {
	ProfileID   int64  `db:"profile_id" json:"profile_id"`
	ClubName    string `db:"club_name" json:"club_name"`
	Role        string `db:"role" json:"role"`
	Description string `db:"description" json:"description"`
	StartDate   string `db:"start_date" json:"start_date"`
	EndDate     string `db:"end_date" json:"end_date"`
	Location    string `db:"location" json:"location"`
	Position    string `db:"position" json:"position"`
}

// Certification represents one certification row
type Certification struct {
	ProfileID           int64  `db:"profile_id" json:"profile_id"`
	Name                string `db:"name" json:"name"`
	IssuingOrganization string `db:"issuing_organization" json:"issuing_organization"`
	IssueDate           string `db:"issue_date" json:"issue_date"`
	ExpirationDate      string `db:"expiration_date" json:"expiration_date"`
	CredentialID        string `db:"credential_id" json:"credential_id"`
	CredentialURL       string `db:"credential_url" json:"credential_url"`
}

// Bundle groups a profile with its four child record sets. The whole bundle
// is persisted atomically; children always carry the profile's ProfileID.
type Bundle struct {
	Profile         Record           `json:"profile"`
	Educations      []Education      `json:"educations"`
	Experiences     []Experience     `json:"experiences"`
	ClubExperiences []ClubExperience `json:"club_experiences"`
	Certifications  []Certification  `json:"certifications"`
}

// SetProfileID stamps the given id on the profile and every child record.
func (b *Bundle) SetProfileID(id int64) {
	b.Profile.ProfileID = id
	for i := range b.Educations {
		b.Educations[i].ProfileID = id
	}
	for i := range b.Experiences {
		b.Experiences[i].ProfileID = id
	}
	for i := range b.ClubExperiences {
		b.ClubExperiences[i].ProfileID = id
	}
	for i := range b.Certifications {
		b.Certifications[i].ProfileID = id
	}
}

// Schema is the SQL schema for the profiles table and its child tables.
// Child tables cascade on profile deletion. Date columns are free text
// because source dates are not always well-formed calendar dates.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id SERIAL PRIMARY KEY,
    profile_id BIGINT UNIQUE NOT NULL,
    profile_url VARCHAR(255),
    profile_pic_url VARCHAR(1000),
    full_name VARCHAR(255),
    headline TEXT,
    summary TEXT,
    country VARCHAR(100),
    city VARCHAR(100),
    email VARCHAR(255),
    contact_number VARCHAR(50),
    github VARCHAR(255),
    twitter VARCHAR(255),
    facebook VARCHAR(255),
    skills TEXT,
    connections INTEGER,
    languages VARCHAR(255),
    follower_count INTEGER,
    industry VARCHAR(255),
    fortune_500 BOOLEAN DEFAULT FALSE,
    entrepreneur BOOLEAN DEFAULT FALSE,
    leadership_role BOOLEAN DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS educations (
    id SERIAL PRIMARY KEY,
    profile_id BIGINT NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
    institution_name VARCHAR(255),
    degree VARCHAR(255),
    field_of_study VARCHAR(255),
    start_date VARCHAR(50),
    end_date VARCHAR(50)
);

CREATE TABLE IF NOT EXISTS experiences (
    id SERIAL PRIMARY KEY,
    profile_id BIGINT NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
    title VARCHAR(255),
    company VARCHAR(255),
    location VARCHAR(255),
    description TEXT,
    start_date VARCHAR(50),
    end_date VARCHAR(50)
);

CREATE TABLE IF NOT EXISTS club_experiences (
    id SERIAL PRIMARY KEY,
    profile_id BIGINT NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
    club_name VARCHAR(255),
    role VARCHAR(255),
    description TEXT,
    start_date VARCHAR(50),
    end_date VARCHAR(50),
    location VARCHAR(255),
    position VARCHAR(100)
);

CREATE TABLE IF NOT EXISTS certifications (
    id SERIAL PRIMARY KEY,
    profile_id BIGINT NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
    name VARCHAR(255),
    issuing_organization VARCHAR(255),
    issue_date VARCHAR(50),
    expiration_date VARCHAR(50),
    credential_id VARCHAR(255),
    credential_url VARCHAR(255)
);
`
