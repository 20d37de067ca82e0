package main

// Page content. Everything here is rendered as-is by index.html.

type SocialLink struct {
	Label string
	Short string
	URL   string
}

type ResumeEntry struct {
	Title       string
	Place       string
	Description string
}

type Certification struct {
	Name        string
	Description string
}

type Project struct {
	Tag         string
	Title       string
	Meta        string
	Description string
	LinkText    string
	URL         string
}

type Profile struct {
	Name      string
	Tagline   string
	AboutMe   string
	Location  string
	Email     string
	Languages string
	Skills    string
	CVPath    string
	Socials   []SocialLink
}

var profile = Profile{
	Name:    "Mila Vasiutynska",
	Tagline: "A versatile generalist with technical skills to build, solve, and innovate.",
	AboutMe: `I'm a dynamic problem solver with a blend of software engineering, data analytics, and 3D design
	experience. I connect technical skills with business impact to deliver practical solutions.`,
	Location:  "Melbourne, Australia",
	Email:     "mila.vasiutynska@gmail.com",
	Languages: "Ukrainian, English",
	Skills:    "Go, Python, JavaScript, SQL, C#, AWS, Docker, Git, Tableau",
	CVPath:    "/static/Mila_Vasiutynska.pdf",
	Socials: []SocialLink{
		{Label: "LinkedIn", Short: "in", URL: "https://www.linkedin.com/in/mila-vasiutynska-3b36752b/"},
		{Label: "GitHub", Short: "@", URL: "https://github.com/mila-vasiutynska"},
		{Label: "Facebook", Short: "f", URL: "https://www.facebook.com/lyuda.vasiutynska"},
		{Label: "Instagram", Short: "ig", URL: "https://www.instagram.com/vlyuda/"},
	},
}

var experience = []ResumeEntry{
	{
		Title:       "Software Engineer",
		Place:       "JigSpace • 2022-2025",
		Description: "Founding team member, designed backend features using Go, PostgreSQL, AWS. Built ML-powered 3D asset pipelines for Vision Pro.",
	},
	{
		Title:       "Technical / 3D Artist",
		Place:       "JigSpace • 2018-2021",
		Description: "Streamlined workflows, increased team productivity by 30%. Developed Python add-ons and AWS pipeline processes.",
	},
	{
		Title:       "Head of Budgeting and Management Reporting",
		Place:       "UkrSibBank, BNP Paribas Group • 2010-2015",
		Description: "Directed 10+ automation initiatives, improved efficiency via SAP integration and SQL on Oracle databases.",
	},
	{
		Title:       "Management Reporting and Data Analyst",
		Place:       "UkrSibBank, BNP Paribas Group • 2007-2009",
		Description: "Led budgeting and forecasting across 24 regions, spearheaded automation initiatives with SQL-driven data insights.",
	},
}

var education = []ResumeEntry{
	{
		Title:       "Google Data Analytics Specialisation",
		Place:       "Coursera • 2024",
		Description: "Data cleaning, transformation, Big Data, Tableau, R programming, SQL",
	},
	{
		Title:       "Advanced Diploma of Game Development",
		Place:       "Academy of Interactive Entertainment (AIE) • 2018",
		Description: "3D Art, UI/UX Design, C#, Unity",
	},
	{
		Title:       "M.A. & B.A. Computer and Information Science",
		Place:       "Taras Shevchenko National University of Kyiv • Graduated with honors",
		Description: "Databases (SQL), Statistics, Computer Science (C++, C#)",
	},
	{
		Title:       "B.A. Finance and Econometrics",
		Place:       "Taras Shevchenko National University of Kyiv",
		Description: "Accounting, Financial and data analysis",
	},
}

var certifications = []Certification{
	{Name: "AWS Certified Cloud Practitioner", Description: "Cloud computing fundamentals and AWS services"},
	{Name: "Ladymates Collective Membership", Description: "Professional women's network and community"},
}

var projects = []Project{
	{
		Tag:         "AI Detection",
		Title:       "AI Data Hackathon",
		Meta:        "Python • 2025",
		Description: "Detecting landmines from drone images using YOLO object recognition. Team placed 7th out of 15 participants.",
		LinkText:    "Read LinkedIn Post →",
		URL:         "https://www.linkedin.com/feed/update/urn:li:activity:7357930235415183360/",
	},
	{
		Tag:         "Healthcare ML",
		Title:       "CIBMTR - Equity in Post-HCT Survival",
		Meta:        "Python • 2025",
		Description: "Analysed transplant patient data and developed predictive models to enhance accuracy and equity in survival predictions.",
		LinkText:    "View Details →",
		URL:         "https://www.kaggle.com/competitions/equity-post-HCT-survival-predictions/overview",
	},
	{
		Tag:         "Marketing Analytics",
		Title:       "Bellabeat Case Study",
		Description: "Conducted exploratory data analysis on smart device usage to inform marketing strategy and generate actionable insights.",
		LinkText:    "View Analysis →",
		URL:         "https://www.kaggle.com/code/milavasiutynska/bellabeat-case-study?scriptVersionId=199182821",
	},
}

// Embedded 3D model shown under the portfolio.
const modelEmbedURL = "https://link.jig.space/GIKw4JWpZWb"
