package contentcal

// Static lookup tables. Accessors return copies so the tables stay immutable.

var platforms = []Platform{LinkedIn, Twitter, Instagram, Facebook, TikTok}

// backfillPlatforms is the rotation used for synthetic posts.
var backfillPlatforms = []Platform{Instagram, LinkedIn, Twitter, Facebook, TikTok}

var postingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var postingTimes = []string{"9:00 AM", "12:00 PM", "3:00 PM", "6:00 PM", "7:00 PM"}

var contentTypes = []string{"Educational", "Promotional", "Entertaining", "Inspirational", "Behind-the-Scenes"}

const (
	defaultBrandName = "Content Calendar"
	postsPerWeek     = 7

	contentFiller = "Join us in our journey to create amazing content that resonates with our community."

	backfillContent = "Share valuable insights and connect with your audience through authentic storytelling. " +
		"This post is designed to engage your followers and build lasting relationships with your community members."
)

var defaultPillars = []Pillar{
	{Title: "Brand Awareness", Description: "Build brand recognition and visibility"},
	{Title: "Engagement", Description: "Foster community interaction"},
	{Title: "Education", Description: "Share valuable insights"},
	{Title: "Promotion", Description: "Highlight products and services"},
}

var defaultPostHashtags = []string{"BrandName", "Marketing", "SocialMedia", "Content", "Digital"}

var backfillHashtags = []string{"Marketing", "SocialMedia", "Content", "Digital", "Brand"}

var defaultHashtagBank = []string{
	"Marketing", "SocialMedia", "ContentCreation", "DigitalMarketing", "BrandAwareness",
	"Engagement", "SocialMediaMarketing", "ContentStrategy", "OnlineMarketing", "Business",
	"Entrepreneur", "SmallBusiness", "Branding", "ContentMarketing", "InboundMarketing",
}

var postingSchedule = []ScheduleEntry{
	{Platform: "Instagram", Frequency: "Daily", BestTimes: "9 AM, 1 PM, 7 PM", ContentType: "Visual Stories"},
	{Platform: "LinkedIn", Frequency: "5x/week", BestTimes: "8 AM, 12 PM, 5 PM", ContentType: "Professional Insights"},
	{Platform: "Twitter", Frequency: "Daily", BestTimes: "9 AM, 3 PM, 8 PM", ContentType: "Quick Updates"},
	{Platform: "Facebook", Frequency: "4x/week", BestTimes: "10 AM, 1 PM, 6 PM", ContentType: "Community Content"},
	{Platform: "TikTok", Frequency: "3x/week", BestTimes: "6 PM, 8 PM, 10 PM", ContentType: "Trending Videos"},
}

var kpiTargets = []KpiTarget{
	{Metric: "Engagement Rate", Target: "5.2%"},
	{Metric: "Follower Growth", Target: "+15%"},
	{Metric: "Reach", Target: "50K+"},
	{Metric: "Click-Through Rate", Target: "3.8%"},
	{Metric: "Shares", Target: "500+"},
	{Metric: "Comments", Target: "200+"},
	{Metric: "Saves", Target: "300+"},
	{Metric: "Video Views", Target: "25K+"},
}

// Platforms returns the known platforms in catalog order.
func Platforms() []Platform { return append([]Platform(nil), platforms...) }

// PostingDays returns the weekday rotation used for scheduling.
func PostingDays() []string { return append([]string(nil), postingDays...) }

// PostingTimes returns the clock-time rotation used for scheduling.
func PostingTimes() []string { return append([]string(nil), postingTimes...) }

// ContentTypes returns the content category rotation used for scheduling.
func ContentTypes() []string { return append([]string(nil), contentTypes...) }

// DefaultPillars returns the pillars used when none can be extracted.
func DefaultPillars() []Pillar { return append([]Pillar(nil), defaultPillars...) }

// DefaultHashtagBank returns the 15-entry hashtag bank used when none can be extracted.
func DefaultHashtagBank() []string { return append([]string(nil), defaultHashtagBank...) }

// PostingSchedule returns the fixed per-platform cadence table.
func PostingSchedule() []ScheduleEntry { return append([]ScheduleEntry(nil), postingSchedule...) }

// KpiTargets returns the fixed KPI catalog.
func KpiTargets() []KpiTarget { return append([]KpiTarget(nil), kpiTargets...) }

// Slot is the scheduling triple assigned to a post.
type Slot struct {
	Day         string
	Time        string
	ContentType string
}

// ScheduleFor returns the posting slot for the post at the zero-based index.
// Day, time and type cycle independently with periods 7, 5 and 5; negative
// indexes continue the cycle backwards.
func ScheduleFor(index int) Slot {
	return Slot{
		Day:         postingDays[wrap(index, len(postingDays))],
		Time:        postingTimes[wrap(index, len(postingTimes))],
		ContentType: contentTypes[wrap(index, len(contentTypes))],
	}
}

func wrap(index, n int) int { return (index%n + n) % n }
