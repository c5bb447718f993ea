package retention

import (
	"growthai/internal/churn"
	"growthai/internal/models"
)

// Templated campaigns used whenever the LLM is unconfigured or misbehaves.
// Keyed by risk segment; unknown segments get the MEDIUM copy.
var fallbackCampaigns = map[string]models.Campaign{
	churn.SegmentHigh: {
		SubjectLine: "Wait! Here's 30% Off Just For You",
		EmailBody: `Dear Valued Customer,

We've noticed it's been a while since your last visit, and we miss you.

As one of our special customers, here is an exclusive deal: 30% off your
entire order with code COMEBACK30. The offer expires in 48 hours.

Waiting for you: new arrivals handpicked from your preferences, free
shipping on orders over $50, and priority support.

Warm regards,
The GrowthAI Team`,
		Strategy: "Urgency-driven retention with significant discount (30%) and scarcity tactics for high-risk customers",
	},
	churn.SegmentMedium: {
		SubjectLine: "Something Special Is Waiting For You",
		EmailBody: `Hey there!

While you were away we added new products and content we think you'll
love: fresh arrivals in your favorite categories and personalized picks
based on your taste.

Here's 15% off your next purchase with code EXPLORE15.

Cheers,
The GrowthAI Team`,
		Strategy: "Curiosity-driven engagement with moderate incentive (15%) and personalization emphasis for medium-risk customers",
	},
	churn.SegmentLow: {
		SubjectLine: "Your VIP Picks Are Ready",
		EmailBody: `Hello!

Thank you for being such a great customer. Based on your unique taste we
have handpicked items we know you'll enjoy.

As a token of our appreciation, enjoy 10% off your next order with code
THANKYOU10 -- plus early access to sales and free shipping.

Best wishes,
The GrowthAI Team`,
		Strategy: "Appreciation-focused retention with loyalty recognition and light incentive (10%) for low-risk customers",
	},
}

func fallbackFor(segment string) models.Campaign {
	if c, ok := fallbackCampaigns[segment]; ok {
		return c
	}
	return fallbackCampaigns[churn.SegmentMedium]
}
