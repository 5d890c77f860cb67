package amadeus

// Wire shapes for the Amadeus endpoints this client consumes. Only the
// fields the normalizers read are declared.

type locationsResponse struct {
	Data []locationResource `json:"data"`
}

type locationResource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IataCode string `json:"iataCode"`
	SubType  string `json:"subType"`
	Address  struct {
		CityName    string `json:"cityName"`
		CountryName string `json:"countryName"`
		CountryCode string `json:"countryCode"`
	} `json:"address"`
}

type flightOffersResponse struct {
	Data []flightOfferResource `json:"data"`
}

type flightOfferResource struct {
	ID    string `json:"id"`
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	Itineraries []struct {
		Duration string            `json:"duration"` // ISO-8601, e.g. PT2H10M
		Segments []segmentResource `json:"segments"`
	} `json:"itineraries"`
}

type segmentResource struct {
	Departure struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
	Cabin       string `json:"cabin"`
}

type hotelListResponse struct {
	Data []hotelResource `json:"data"`
}

type hotelResource struct {
	HotelID   string   `json:"hotelId"`
	Name      string   `json:"name"`
	ChainCode string   `json:"chainCode"`
	Rating    int      `json:"rating"`
	Amenities []string `json:"amenities"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	CityCode  string   `json:"cityCode"`
	Address   struct {
		Lines       []string `json:"lines"`
		CityName    string   `json:"cityName"`
		CountryCode string   `json:"countryCode"`
	} `json:"address"`
}

type hotelOffersResponse struct {
	Data []hotelOfferResource `json:"data"`
}

type hotelOfferResource struct {
	Hotel struct {
		HotelID string `json:"hotelId"`
	} `json:"hotel"`
	Offers []offerResource `json:"offers"`
}

type offerResource struct {
	ID           string `json:"id"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Guests       struct {
		Adults int `json:"adults"`
	} `json:"guests"`
	Price struct {
		Total      string `json:"total"`
		Base       string `json:"base"`
		Currency   string `json:"currency"`
		Variations struct {
			Average struct {
				Base string `json:"base"`
			} `json:"average"`
		} `json:"variations"`
	} `json:"price"`
	Room struct {
		Type        string `json:"type"`
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
		TypeEstimated struct {
			BedType string `json:"bedType"`
			Beds    int    `json:"beds"`
		} `json:"typeEstimated"`
	} `json:"room"`
	Policies struct {
		PaymentType string `json:"paymentType"`
		Refundable  struct {
			CancellationRefund string `json:"cancellationRefund"`
		} `json:"refundable"`
		Cancellations []struct {
			Deadline string `json:"deadline"`
		} `json:"cancellations"`
	} `json:"policies"`
	Self string `json:"self"`
}
