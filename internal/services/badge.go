package services

// NoBadge is shown until the first tier is reached.
const NoBadge = "No badge yet"

type badgeTier struct {
	Name      string
	MinPoints int
}

// badgeTiers is ordered highest first.
var badgeTiers = []badgeTier{
	{Name: "Gold", MinPoints: 100},
	{Name: "Silver", MinPoints: 75},
	{Name: "Bronze", MinPoints: 50},
}

// BadgeFor derives the display badge from a point total.
func BadgeFor(points int) string {
	for _, tier := range badgeTiers {
		if points >= tier.MinPoints {
			return tier.Name
		}
	}
	return NoBadge
}
