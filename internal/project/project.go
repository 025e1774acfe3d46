// Package project defines the loan application record captured by the form and
// the canonical order in which its fields are exchanged.
package project

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ProjectData is the flat set of form values for one application. Every field
// is kept as text; numeric fields are parsed on demand with Number.
type ProjectData struct {
	// Beneficiary
	BeneficiaryName          string `json:"beneficiaryName"`
	FatherName               string `json:"fatherName"`
	Address                  string `json:"address"`
	MobileNumber             string `json:"mobileNumber"`
	AboutBeneficiary         string `json:"aboutBeneficiary"`
	Age                      string `json:"age"`
	Gender                   string `json:"gender"`
	MaritalStatus            string `json:"maritalStatus"`
	EducationalQualification string `json:"educationalQualification"`
	Experience               string `json:"experience"`
	Caste                    string `json:"caste"`
	FamilyMembers            string `json:"familyMembers"`
	AnnualIncome             string `json:"annualIncome"`
	PanNumber                string `json:"panNumber"`
	AadharNumber             string `json:"aadharNumber"`

	// Address and bank
	Location      string `json:"location"`
	District      string `json:"district"`
	State         string `json:"state"`
	PinCode       string `json:"pinCode"`
	LandOwnership string `json:"landOwnership"`
	BankName      string `json:"bankName"`
	BranchName    string `json:"branchName"`
	AccountNumber string `json:"accountNumber"`
	IfscCode      string `json:"ifscCode"`

	// Project description
	ProjectName                 string `json:"projectName"`
	Category                    string `json:"category"`
	Capacity                    string `json:"capacity"`
	UnitOfMeasurement           string `json:"unitOfMeasurement"`
	ProjectImplementationPeriod string `json:"projectImplementationPeriod"`
	PowerRequirement            string `json:"powerRequirement"`
	ProjectObjective            string `json:"projectObjective"`
	MarketAnalysis              string `json:"marketAnalysis"`
	CompetitiveAdvantage        string `json:"competitiveAdvantage"`
	RiskAnalysis                string `json:"riskAnalysis"`
	MitigationMeasures          string `json:"mitigationMeasures"`

	// Financing terms
	TotalProjectCost        string `json:"totalProjectCost"`
	PromotersContribution   string `json:"promotersContribution"`
	Subsidy                 string `json:"subsidy"`
	RateOfInterest          string `json:"rateOfInterest"`
	LoanTenureYears         string `json:"loanTenureYears"`
	MoratoriumPeriodMonths  string `json:"moratoriumPeriodMonths"`
	ProjectedAnnualRevenue  string `json:"projectedAnnualRevenue"`
	ProjectedAnnualExpenses string `json:"projectedAnnualExpenses"`
	DepreciationRate        string `json:"depreciationRate"`
	RevenueGrowthRate       string `json:"revenueGrowthRate"`
	ExpenseGrowthRate       string `json:"expenseGrowthRate"`

	// Cost components
	MachineryEquipmentCost         string `json:"machineryEquipmentCost"`
	ShedBuildingCost               string `json:"shedBuildingCost"`
	LandCost                       string `json:"landCost"`
	FurnitureFittingsCost          string `json:"furnitureFittingsCost"`
	VehicleCost                    string `json:"vehicleCost"`
	WorkingCapitalCost             string `json:"workingCapitalCost"`
	OtherAssetsCost                string `json:"otherAssetsCost"`
	ProjectReportCost              string `json:"projectReportCost"`
	TechnicalKnowHowCost           string `json:"technicalKnowHowCost"`
	LicensingCost                  string `json:"licensingCost"`
	TrainingCost                   string `json:"trainingCost"`
	InterestDuringConstructionCost string `json:"interestDuringConstructionCost"`
	OtherPreOperativeCost          string `json:"otherPreOperativeCost"`
}

// Field names, as used in CSV headers and JSON.
const (
	FieldBeneficiaryName                = "beneficiaryName"
	FieldFatherName                     = "fatherName"
	FieldProjectName                    = "projectName"
	FieldAnnualIncome                   = "annualIncome"
	FieldTotalProjectCost               = "totalProjectCost"
	FieldPromotersContribution          = "promotersContribution"
	FieldSubsidy                        = "subsidy"
	FieldRateOfInterest                 = "rateOfInterest"
	FieldLoanTenureYears                = "loanTenureYears"
	FieldMoratoriumPeriodMonths         = "moratoriumPeriodMonths"
	FieldProjectedAnnualRevenue         = "projectedAnnualRevenue"
	FieldProjectedAnnualExpenses        = "projectedAnnualExpenses"
	FieldDepreciationRate               = "depreciationRate"
	FieldRevenueGrowthRate              = "revenueGrowthRate"
	FieldExpenseGrowthRate              = "expenseGrowthRate"
	FieldMachineryEquipmentCost         = "machineryEquipmentCost"
	FieldShedBuildingCost               = "shedBuildingCost"
	FieldLandCost                       = "landCost"
	FieldFurnitureFittingsCost          = "furnitureFittingsCost"
	FieldVehicleCost                    = "vehicleCost"
	FieldWorkingCapitalCost             = "workingCapitalCost"
	FieldOtherAssetsCost                = "otherAssetsCost"
	FieldProjectReportCost              = "projectReportCost"
	FieldTechnicalKnowHowCost           = "technicalKnowHowCost"
	FieldLicensingCost                  = "licensingCost"
	FieldTrainingCost                   = "trainingCost"
	FieldInterestDuringConstructionCost = "interestDuringConstructionCost"
	FieldOtherPreOperativeCost          = "otherPreOperativeCost"
)

// headers is the canonical column order. It is never modified; callers get
// copies from Headers.
var headers = [...]string{
	"beneficiaryName",
	"fatherName",
	"address",
	"mobileNumber",
	"aboutBeneficiary",
	"age",
	"gender",
	"maritalStatus",
	"educationalQualification",
	"experience",
	"caste",
	"familyMembers",
	"annualIncome",
	"panNumber",
	"aadharNumber",
	"location",
	"district",
	"state",
	"pinCode",
	"landOwnership",
	"bankName",
	"branchName",
	"accountNumber",
	"ifscCode",
	"projectName",
	"category",
	"capacity",
	"unitOfMeasurement",
	"projectImplementationPeriod",
	"powerRequirement",
	"projectObjective",
	"marketAnalysis",
	"competitiveAdvantage",
	"riskAnalysis",
	"mitigationMeasures",
	"totalProjectCost",
	"promotersContribution",
	"subsidy",
	"rateOfInterest",
	"loanTenureYears",
	"moratoriumPeriodMonths",
	"projectedAnnualRevenue",
	"projectedAnnualExpenses",
	"depreciationRate",
	"revenueGrowthRate",
	"expenseGrowthRate",
	"machineryEquipmentCost",
	"shedBuildingCost",
	"landCost",
	"furnitureFittingsCost",
	"vehicleCost",
	"workingCapitalCost",
	"otherAssetsCost",
	"projectReportCost",
	"technicalKnowHowCost",
	"licensingCost",
	"trainingCost",
	"interestDuringConstructionCost",
	"otherPreOperativeCost",
}

// identityFields are the fields of which at least one must be filled in for a
// record to be usable.
var identityFields = [...]string{FieldBeneficiaryName, FieldProjectName, FieldFatherName}

// fieldIndex maps a header name to the struct field index.
var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]int {
	typ := reflect.TypeOf(ProjectData{})
	byTag := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		byTag[typ.Field(i).Tag.Get("json")] = i
	}
	index := make(map[string]int, len(headers))
	for _, name := range headers {
		i, ok := byTag[name]
		if !ok {
			panic("project: header " + name + " has no ProjectData field")
		}
		index[name] = i
	}
	if len(index) != typ.NumField() {
		panic("project: ProjectData fields and headers are out of sync")
	}
	return index
}

// Headers returns the canonical column order.
func Headers() []string {
	out := make([]string, len(headers))
	copy(out, headers[:])
	return out
}

// FieldCount is the number of declared fields.
func FieldCount() int {
	return len(headers)
}

// IdentityFields returns the names checked by HasIdentity.
func IdentityFields() []string {
	out := make([]string, len(identityFields))
	copy(out, identityFields[:])
	return out
}

// IsHeader reports whether name is a declared field.
func IsHeader(name string) bool {
	_, ok := fieldIndex[name]
	return ok
}

// Get returns the value of the named field.
func (p ProjectData) Get(name string) (string, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return "", false
	}
	return reflect.ValueOf(p).Field(i).String(), true
}

// Set assigns the named field and reports whether the name is known.
func (p *ProjectData) Set(name, value string) bool {
	i, ok := fieldIndex[name]
	if !ok {
		return false
	}
	reflect.ValueOf(p).Elem().Field(i).SetString(value)
	return true
}

// Values returns the field values in canonical order.
func (p ProjectData) Values() []string {
	v := reflect.ValueOf(p)
	out := make([]string, len(headers))
	for n, name := range headers {
		out[n] = v.Field(fieldIndex[name]).String()
	}
	return out
}

// Number parses a numeric field. Blank or unparsable values are 0, as are
// unknown names.
func (p ProjectData) Number(name string) float64 {
	raw, ok := p.Get(name)
	if !ok {
		return 0
	}
	return ParseNumber(raw)
}

// ParseNumber parses form text such as "12,50,000", "₹ 4500" or "9.5%".
func ParseNumber(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.TrimPrefix(cleaned, "Rs.")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// HasIdentity reports whether at least one identity field is non-blank.
func (p ProjectData) HasIdentity() bool {
	for _, name := range identityFields {
		if v, _ := p.Get(name); strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// FilledCount returns how many declared fields hold a non-blank value.
func (p ProjectData) FilledCount() int {
	n := 0
	for _, v := range p.Values() {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
