// Package seed holds demonstration data for new installations.
package seed

import (
	"github.com/shopspring/decimal"

	"brokerdesk/internal/domain"
)

type premium struct {
	sumInsured, basic, srcc, tc, stampDuty, adminFees, roadSafety, policyFee, vat int64
	commBasic, commSRCC, commTC                                                    int64
}

func (p premium) apply(c *domain.Client) {
	d := decimal.NewFromInt
	c.SumInsured = d(p.sumInsured)
	c.BasicPremium = d(p.basic)
	c.SRCCPremium = d(p.srcc)
	c.TCPremium = d(p.tc)
	c.StampDuty = d(p.stampDuty)
	c.AdminFees = d(p.adminFees)
	c.RoadSafetyFee = d(p.roadSafety)
	c.PolicyFee = d(p.policyFee)
	c.VATFee = d(p.vat)
	c.CommissionBasic = d(p.commBasic)
	c.CommissionSRCC = d(p.commSRCC)
	c.CommissionTC = d(p.commTC)
	c.Policies = 1
	c.ApplyDerivedTotals()
}

// SampleClients returns five representative clients across products and
// providers. Net premium and total invoice are derived from their parts.
func SampleClients() []domain.Client {
	clients := []domain.Client{
		{
			IntroducerCode: "IC001", CustomerType: "Individual", Product: "Motor Insurance",
			InsuranceProvider: "AIA Insurance", Branch: "Colombo", ClientName: "John Fernando",
			Street1: "45 Galle Road", Street2: "Apt 3B", City: "Colombo", District: "Colombo",
			Province: "Western", Telephone: "0112345678", MobileNo: "0771234567",
			ContactPerson: "John Fernando", Email: "john.fernando@gmail.com", SocialMedia: "@johnf",
			PolicyType: "Comprehensive", PolicyNo: "POL-MT-2023-001",
			PolicyPeriodFrom: "2023-01-15", PolicyPeriodTo: "2024-01-14", Coverage: "Full Coverage",
			CommissionType: "Percentage",
		},
		{
			IntroducerCode: "IC002", CustomerType: "Corporate", Product: "Fire Insurance",
			InsuranceProvider: "Ceylinco Insurance", Branch: "Negombo", ClientName: "ABC Enterprises",
			Street1: "78 Main Street", Street2: "Floor 2", City: "Negombo", District: "Gampaha",
			Province: "Western", Telephone: "0312267890", MobileNo: "0761234567",
			ContactPerson: "Samantha Perera", Email: "info@abcenterprises.lk", SocialMedia: "@abcenterprises",
			PolicyType: "Standard", PolicyNo: "POL-FI-2023-012",
			PolicyPeriodFrom: "2023-02-10", PolicyPeriodTo: "2024-02-09", Coverage: "Fire & Lightning",
			CommissionType: "Percentage",
		},
		{
			IntroducerCode: "IC003", CustomerType: "Individual", Product: "Health Insurance",
			InsuranceProvider: "Union Assurance", Branch: "Kandy", ClientName: "Priya Gunasekara",
			Street1: "23 Temple Road", City: "Kandy", District: "Kandy",
			Province: "Central", Telephone: "0814563218", MobileNo: "0712345678",
			ContactPerson: "Priya Gunasekara", Email: "priya.g@yahoo.com", SocialMedia: "@priyag",
			PolicyType: "Premium", PolicyNo: "POL-HI-2023-036",
			PolicyPeriodFrom: "2023-03-20", PolicyPeriodTo: "2024-03-19", Coverage: "Hospitalization",
			CommissionType: "Fixed",
		},
		{
			IntroducerCode: "IC004", CustomerType: "Corporate", Product: "Liability Insurance",
			InsuranceProvider: "Allianz Insurance", Branch: "Colombo", ClientName: "XYZ Holdings",
			Street1: "120 Duplication Road", Street2: "5th Floor", City: "Colombo", District: "Colombo",
			Province: "Western", Telephone: "0112876543", MobileNo: "0778765432",
			ContactPerson: "Ravi Mendis", Email: "admin@xyzholdings.com", SocialMedia: "@xyzholdings",
			PolicyType: "Professional", PolicyNo: "POL-LI-2023-078",
			PolicyPeriodFrom: "2023-04-12", PolicyPeriodTo: "2024-04-11", Coverage: "Professional Liability",
			CommissionType: "Percentage",
		},
		{
			IntroducerCode: "IC005", CustomerType: "Individual", Product: "Life Insurance",
			InsuranceProvider: "AIA Insurance", Branch: "Galle", ClientName: "Lakshmi Silva",
			Street1: "56 Marine Drive", City: "Galle", District: "Galle",
			Province: "Southern", Telephone: "0915678901", MobileNo: "0753456789",
			ContactPerson: "Lakshmi Silva", Email: "lakshmi.silva@hotmail.com",
			PolicyType: "Term Life", PolicyNo: "POL-LF-2023-125",
			PolicyPeriodFrom: "2023-05-05", PolicyPeriodTo: "2043-05-04", Coverage: "Death Benefit",
			CommissionType: "Fixed",
		},
	}

	premiums := []premium{
		{5000000, 45000, 5000, 3000, 250, 1500, 500, 1000, 6600, 5400, 600, 360},
		{12000000, 120000, 15000, 7500, 500, 2000, 0, 1500, 17640, 14400, 1800, 900},
		{2500000, 75000, 0, 0, 250, 1000, 0, 1000, 9270, 9000, 0, 0},
		{20000000, 210000, 0, 0, 1000, 3000, 0, 2000, 25920, 25200, 0, 0},
		{5000000, 87500, 0, 0, 250, 1000, 0, 1000, 10770, 8750, 0, 0},
	}
	for i := range clients {
		premiums[i].apply(&clients[i])
	}
	return clients
}
