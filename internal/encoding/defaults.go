package encoding

// DefaultTables returns the encodings the salary model was trained with.
func DefaultTables() Tables {
	fields := make(map[string]float64, len(defaultFields))
	for k, v := range defaultFields {
		fields[k] = v
	}
	years := make(map[int]float64, len(defaultYears))
	for k, v := range defaultYears {
		years[k] = v
	}
	creds := make(map[Credential]int, len(defaultCredentialSlots))
	for k, v := range defaultCredentialSlots {
		creds[k] = v
	}
	return Tables{Fields: fields, Years: years, Credentials: creds}
}

// Slots follow the alphabetical dummy columns of the training frame.
var defaultCredentialSlots = map[Credential]int{
	Bachelor:             0,
	Certificate:          1,
	Diploma:              2,
	Doctoral:             3,
	Master:               4,
	ProfessionalBachelor: 5,
}

var defaultYears = map[int]float64{
	1: -1.40,
	2: -0.70,
	3: 0.00,
	4: 0.71,
	5: 1.41,
}

var defaultFields = map[string]float64{
	"Agriculture, agriculture operations and related sciences":      -0.594,
	"Natural resources and conservation":                            0.171,
	"Architecture and related services":                             0.436,
	"Area, ethnic, cultural, gender, and group studies":             -0.917,
	"Communication, journalism and related programs":                -0.315,
	"Communications technologies/technicians and support services":  -1.021,
	"Computer and information sciences and support services":        0.576,
	"Personal and culinary services":                                -1.316,
	"Education":                                                     1.871,
	"Engineering":                                                   2.643,
	"Engineering technologies and engineering-related fields":       0.979,
	"Aboriginal and foreign languages, literatures and linguistics": -1.432,
	"Family and consumer sciences/human sciences":                   -1.144,
	"Legal professions and studies":                                 0.914,
	"English language and literature/letters":                       -0.611,
	"Liberal arts and sciences, general studies and humanities":     -1.008,
	"Library science":                                               -0.545,
	"Biological and biomedical sciences":                            -0.593,
	"Mathematics and statistics":                                    0.397,
	"Multidisciplinary/interdisciplinary studies":                   -0.0172,
	"Parks, recreation, leisure and fitness studies":                -0.5426,
	"Philosophy and religious studies":                              -0.703,
	"Physical sciences":                                             0.465,
	"Science technologies/technicians":                              -0.407,
	"Psychology":                                                    0.726,
	"Security and protective services":                              0.974,
	"Public administration and social service professions":          0.740,
	"Social sciences":                                               0.164,
	"Construction trades":                                           -0.839,
	"Mechanic and repair technologies/technicians":                  2.238,
	"Precision production":                                          1.238,
	"Transportation and materials moving":                           -0.684,
	"Visual and performing arts":                                    -1.475,
	"Health professions and related programs":                       0.403,
	"Business, management, marketing and related support services":  -0.0788,
	"History":                                                       -0.382,
	"French language and literature/lettersCAN":                     -0.307,
}
